package internal

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
	"unicode"
)

// Version is the lingocard release version.
const Version = "0.2.1"

// GenerateCardID creates a unique ID for a saved flashcard based on
// timestamp and the captured text.
// Format: epochMillis_md5(text)[:8]
func GenerateCardID(text string) string {
	epochMillis := time.Now().UnixNano() / 1000000

	hash := md5.Sum([]byte(text))
	hashStr := hex.EncodeToString(hash[:])[:8]

	return fmt.Sprintf("%d_%s", epochMillis, hashStr)
}

// DedupKey returns a stable identifier for a piece of captured text,
// independent of when it was captured. Used to deduplicate counter
// increments for repeated submissions of the same content.
func DedupKey(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

// SanitizeFilename creates a safe filename from a string. Letters and
// digits of any script are kept so card text in Japanese, Cyrillic etc.
// stays readable on disk.
func SanitizeFilename(s string) string {
	result := ""
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			result += string(r)
		} else {
			result += "_"
		}
	}
	return result
}
