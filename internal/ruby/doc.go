// Package ruby parses annotated text into base/reading word pairs for
// stacked furigana-style rendering, and can annotate Japanese text
// locally when the translation provider returns no reading.
package ruby
