// Package translator calls the external translation/romanization
// provider and drives the per-request pipeline: classify, validate the
// forced-language constraint, call out, and assemble the annotated
// result. Provider failures are retryable and never clobber the last
// successful result.
package translator
