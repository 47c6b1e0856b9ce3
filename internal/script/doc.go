// Package script detects which writing systems are present in a piece of
// captured text and resolves a single display language from them. It also
// validates text against a user-forced language constraint and knows which
// scripts require a phonetic reading alongside a translation.
package script
