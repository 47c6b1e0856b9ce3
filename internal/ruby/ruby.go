package ruby

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// Word is one renderable unit of annotated text. Base is never empty; an
// empty Reading means plain text with no phonetic annotation.
type Word struct {
	Base    string
	Reading string
}

// Annotated reports whether the word carries a reading.
func (w Word) Annotated() bool { return w.Reading != "" }

// Diagnostic flags a data-quality concern found while parsing. It never
// blocks rendering; the word is emitted regardless.
type Diagnostic struct {
	Base    string
	Reading string
	Reason  string
}

// Reading delimiters recognized in annotated text: ASCII parentheses,
// fullwidth parentheses, and white corner brackets.
var delimiters = map[rune]rune{
	'(': ')',
	'（': '）',
	'｟': '｠',
}

// Parser turns annotated text into Word sequences. The zero value is
// ready to use; set OnDiagnostic to receive data-quality warnings.
type Parser struct {
	// OnDiagnostic, when non-nil, is called for each suspicious
	// base/reading pair (e.g. a reading much shorter than its base,
	// suggesting truncation upstream).
	OnDiagnostic func(Diagnostic)
}

// Parse returns all words of the annotated text in order. Never fails:
// malformed spans degrade to plain words.
func (p *Parser) Parse(text string) []Word {
	var words []Word
	for w := range p.Words(text) {
		words = append(words, w)
	}
	return words
}

// Words returns a lazy sequence of the words in text, in left-to-right
// order. The sequence is finite and restartable: ranging over it again
// re-parses from the start, so edited input can be re-run cheaply.
//
// Any span outside the delimiter convention becomes a single plain word.
// An unterminated delimiter is not an error; the remainder of the run is
// emitted as plain text.
func (p *Parser) Words(text string) iter.Seq[Word] {
	return func(yield func(Word) bool) {
		runes := []rune(text)
		var base strings.Builder

		flush := func() bool {
			if base.Len() == 0 {
				return true
			}
			w := Word{Base: base.String()}
			base.Reset()
			return yield(w)
		}

		for i := 0; i < len(runes); i++ {
			r := runes[i]
			closer, isOpen := delimiters[r]
			if !isOpen {
				base.WriteRune(r)
				continue
			}

			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == closer {
					end = j
					break
				}
			}
			reading := ""
			if end > i {
				reading = string(runes[i+1 : end])
			}

			// Unterminated delimiter, empty reading, or a reading with
			// no preceding base: keep the raw text as plain words.
			if end < 0 {
				base.WriteString(string(runes[i:]))
				i = len(runes)
				flush()
				return
			}
			if reading == "" || base.Len() == 0 {
				base.WriteString(string(runes[i : end+1]))
				i = end
				continue
			}

			w := Word{Base: base.String(), Reading: reading}
			base.Reset()
			p.check(w)
			if !yield(w) {
				return
			}
			i = end
		}
		flush()
	}
}

// check emits a diagnostic when the reading looks truncated: fewer than
// half as many characters as the base.
func (p *Parser) check(w Word) {
	if p.OnDiagnostic == nil {
		return
	}
	baseLen := utf8.RuneCountInString(w.Base)
	readingLen := utf8.RuneCountInString(w.Reading)
	if readingLen*2 < baseLen {
		p.OnDiagnostic(Diagnostic{
			Base:    w.Base,
			Reading: w.Reading,
			Reason:  "reading shorter than half the base, possibly truncated",
		})
	}
}

// Parse is a convenience wrapper using a parser with no diagnostics sink.
func Parse(text string) []Word {
	var p Parser
	return p.Parse(text)
}
