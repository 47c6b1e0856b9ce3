package ruby

import (
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Annotator produces base(reading) annotated text for Japanese input
// using a local morphological dictionary. It backs the pipeline when the
// translation provider returns a translation but no reading.
type Annotator struct {
	t *tokenizer.Tokenizer
}

// NewAnnotator creates an annotator backed by the IPA dictionary.
func NewAnnotator() (*Annotator, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Annotator{t: t}, nil
}

// Annotate rewrites Japanese text into the delimiter convention the
// parser understands: tokens containing kanji get their hiragana reading
// appended in parentheses, everything else passes through unchanged.
func (a *Annotator) Annotate(text string) string {
	var out strings.Builder
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		surface := token.Surface
		out.WriteString(surface)

		if !containsKanji(surface) {
			continue
		}
		reading, ok := token.Reading()
		if !ok || reading == "*" || reading == "" {
			continue
		}
		out.WriteRune('(')
		out.WriteString(katakanaToHiragana(reading))
		out.WriteRune(')')
	}
	return out.String()
}

func containsKanji(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han) {
			return true
		}
	}
	return false
}

// katakanaToHiragana lowers a dictionary reading (katakana) into the
// hiragana conventionally used for furigana.
func katakanaToHiragana(s string) string {
	var out strings.Builder
	for _, r := range s {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= 0x60
		}
		out.WriteRune(r)
	}
	return out.String()
}
