package script

import (
	"strings"
	"unicode"
)

// Language identifies a supported language.
type Language int

const (
	Unknown Language = iota
	Japanese
	Chinese
	Korean
	Russian
	Arabic
	Hindi
	Esperanto
	Italian
	Tagalog
	French
	Spanish
	Portuguese
	German
)

// languageNames maps Language values to display names.
var languageNames = [...]string{
	Unknown:    "unknown",
	Japanese:   "Japanese",
	Chinese:    "Chinese",
	Korean:     "Korean",
	Russian:    "Russian",
	Arabic:     "Arabic",
	Hindi:      "Hindi",
	Esperanto:  "Esperanto",
	Italian:    "Italian",
	Tagalog:    "Tagalog",
	French:     "French",
	Spanish:    "Spanish",
	Portuguese: "Portuguese",
	German:     "German",
}

// languageCodes maps Language values to ISO 639-1 codes.
var languageCodes = [...]string{
	Unknown:    "",
	Japanese:   "ja",
	Chinese:    "zh",
	Korean:     "ko",
	Russian:    "ru",
	Arabic:     "ar",
	Hindi:      "hi",
	Esperanto:  "eo",
	Italian:    "it",
	Tagalog:    "tl",
	French:     "fr",
	Spanish:    "es",
	Portuguese: "pt",
	German:     "de",
}

// languageFromCode maps ISO 639-1 codes back to Language values.
var languageFromCode = map[string]Language{}

func init() {
	for lang, code := range languageCodes {
		if code != "" {
			languageFromCode[code] = Language(lang)
		}
	}
}

// String returns the display name of the language.
func (l Language) String() string {
	if int(l) >= 0 && int(l) < len(languageNames) {
		return languageNames[l]
	}
	return "unknown"
}

// Code returns the ISO 639-1 code of the language, or "" for Unknown.
func (l Language) Code() string {
	if int(l) >= 0 && int(l) < len(languageCodes) {
		return languageCodes[l]
	}
	return ""
}

// FromCode resolves an ISO 639-1 code to a Language. Returns Unknown for
// codes outside the supported set.
func FromCode(code string) Language {
	return languageFromCode[strings.ToLower(strings.TrimSpace(code))]
}

// Signature records which script families are present in a piece of text.
// Per the data model, Japanese covers kana and kanji while Chinese means
// Han characters with no kana at all, so both can be true for kanji-only
// text and ResolveLabel breaks the tie.
type Signature struct {
	Japanese   bool
	Chinese    bool
	Korean     bool
	Cyrillic   bool
	Arabic     bool
	Devanagari bool
	Esperanto  bool
	Italian    bool
	Tagalog    bool
	French     bool
	Spanish    bool
	Portuguese bool
	German     bool

	// hasKana distinguishes kana-bearing Japanese from kanji-only text
	// when resolving a display label.
	hasKana bool
}

// Has reports whether the script test for lang is satisfied.
func (s Signature) Has(lang Language) bool {
	switch lang {
	case Japanese:
		return s.Japanese
	case Chinese:
		return s.Chinese
	case Korean:
		return s.Korean
	case Russian:
		return s.Cyrillic
	case Arabic:
		return s.Arabic
	case Hindi:
		return s.Devanagari
	case Esperanto:
		return s.Esperanto
	case Italian:
		return s.Italian
	case Tagalog:
		return s.Tagalog
	case French:
		return s.French
	case Spanish:
		return s.Spanish
	case Portuguese:
		return s.Portuguese
	case German:
		return s.German
	}
	return false
}

// Diacritic marker sets for Latin-script languages. A single marker is
// enough to flag the language; overlap between the sets is resolved by
// the label priority order.
var (
	esperantoMarkers  = runeSet("ĉĝĥĵŝŭĈĜĤĴŜŬ")
	italianMarkers    = runeSet("àèìòùÀÈÌÒÙ")
	frenchMarkers     = runeSet("çâêîôûëïœæÇÂÊÎÔÛËÏŒÆ")
	spanishMarkers    = runeSet("ñ¿¡Ñ")
	portugueseMarkers = runeSet("ãõÃÕ")
	germanMarkers     = runeSet("äöüßÄÖÜẞ")
)

// Common Tagalog function words. Tagalog is written in plain Latin script,
// so presence requires either the Baybayin block or at least two distinct
// marker words; a single hit on an English-looking word must not trigger.
var tagalogWords = map[string]bool{
	"ang": true, "mga": true, "ako": true, "ikaw": true, "siya": true,
	"hindi": true, "kumusta": true, "salamat": true, "po": true, "ito": true,
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}

func isKana(r rune) bool {
	return unicode.In(r, unicode.Hiragana, unicode.Katakana) ||
		(r >= 0xFF66 && r <= 0xFF9D) // halfwidth katakana
}

// Classify scans text and returns its script signature. Pure and total:
// empty or whitespace-only input yields the zero Signature. ASCII letters,
// digits, punctuation and whitespace never satisfy any code-point range
// test, so plain English text stays all-false.
func Classify(text string) Signature {
	var sig Signature
	var hasHan bool

	for _, r := range text {
		if r < 128 {
			continue
		}
		switch {
		case isKana(r):
			sig.hasKana = true
		case unicode.In(r, unicode.Han):
			hasHan = true
		case unicode.In(r, unicode.Hangul):
			sig.Korean = true
		case unicode.In(r, unicode.Cyrillic):
			sig.Cyrillic = true
		case unicode.In(r, unicode.Arabic):
			sig.Arabic = true
		case unicode.In(r, unicode.Devanagari):
			sig.Devanagari = true
		case unicode.In(r, unicode.Tagalog):
			sig.Tagalog = true
		case esperantoMarkers[r]:
			sig.Esperanto = true
		case italianMarkers[r]:
			sig.Italian = true
		case frenchMarkers[r]:
			sig.French = true
		case spanishMarkers[r]:
			sig.Spanish = true
		case portugueseMarkers[r]:
			sig.Portuguese = true
		case germanMarkers[r]:
			sig.German = true
		}
	}

	sig.Japanese = sig.hasKana || hasHan
	sig.Chinese = hasHan && !sig.hasKana

	if !sig.Tagalog {
		sig.Tagalog = hasTagalogWords(text)
	}

	return sig
}

// hasTagalogWords reports whether text contains at least two distinct
// common Tagalog function words.
func hasTagalogWords(text string) bool {
	seen := map[string]bool{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, ".,!?;:\"'()")
		if tagalogWords[word] {
			seen[word] = true
			if len(seen) >= 2 {
				return true
			}
		}
	}
	return false
}

// DefaultPriority is the label resolution order. Japanese is checked
// before Chinese so kanji-only text with kana elsewhere resolves to
// Japanese rather than Chinese; the kana check itself happens in
// ResolveLabel.
var DefaultPriority = []Language{
	Japanese, Chinese, Korean, Russian, Arabic, Hindi,
	Esperanto, Italian, Tagalog, French, Spanish, Portuguese, German,
}

// Classifier resolves display labels from signatures using an explicit
// priority order, so tests can substitute their own ordering.
type Classifier struct {
	priority []Language
}

// NewClassifier returns a classifier with the given priority order, or
// DefaultPriority when none is supplied.
func NewClassifier(priority ...Language) *Classifier {
	if len(priority) == 0 {
		priority = DefaultPriority
	}
	return &Classifier{priority: priority}
}

// ResolveLabel picks a single display language from a signature. Japanese
// wins over Chinese only when kana is present; kanji-only text resolves
// to Chinese. The label is for display and section titles only, never
// for forced-language validation.
func (c *Classifier) ResolveLabel(sig Signature) string {
	for _, lang := range c.priority {
		switch lang {
		case Japanese:
			if sig.hasKana {
				return Japanese.String()
			}
		case Chinese:
			if sig.Chinese {
				return Chinese.String()
			}
		default:
			if sig.Has(lang) {
				return lang.String()
			}
		}
	}
	// Kanji-only text with Chinese not in the priority list still reads
	// as Japanese if the Japanese test passed.
	if sig.Japanese {
		return Japanese.String()
	}
	return Unknown.String()
}

// ForcedAuto is the forced-language constraint value meaning "no
// constraint, detect automatically".
const ForcedAuto = "auto"

// ValidateForcedLanguage reports whether text satisfies the forced
// language constraint. Constraint "auto" (or empty) always validates.
// Codes outside the supported set validate as true: there is no script
// test to run, and an uncheckable constraint must not block the user.
// Re-run this on every edit of the input, not only on first submission.
func ValidateForcedLanguage(text, constraint string) bool {
	constraint = strings.ToLower(strings.TrimSpace(constraint))
	if constraint == "" || constraint == ForcedAuto {
		return true
	}
	lang := FromCode(constraint)
	if lang == Unknown {
		return true
	}
	return Classify(text).Has(lang)
}

// romanized holds the fixed policy table of scripts that always require a
// phonetic reading alongside a translation.
var romanized = map[Language]bool{
	Japanese: true,
	Chinese:  true,
	Korean:   true,
	Russian:  true,
	Arabic:   true,
	Hindi:    true,
}

// NeedsRomanization reports whether lang requires a reading with its
// translation. Static policy, not inferred from the text.
func NeedsRomanization(lang Language) bool {
	return romanized[lang]
}

// NeedsRomanizationFor reports whether any script present in sig requires
// a reading.
func NeedsRomanizationFor(sig Signature) bool {
	for lang := range romanized {
		if sig.Has(lang) {
			return true
		}
	}
	return false
}
