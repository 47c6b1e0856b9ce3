// Package batch reads capture lists from disk so many texts can be
// translated in one run.
package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one captured text from a batch file.
type Entry struct {
	Text        string
	Translation string
	// HasTranslation is set when the file already provides the
	// translation, so no provider call is needed for this entry.
	HasTranslation bool
}

// ReadBatchFile reads captured texts from a file, one per line.
// Supported formats:
//   - text only: "Пожарный выход" (will be translated)
//   - with translation: "Пожарный выход = Fire exit" (kept as-is)
//
// Blank lines and lines starting with '#' are skipped.
func ReadBatchFile(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text, translation, found := strings.Cut(line, "=")
		text = strings.TrimSpace(text)
		translation = strings.TrimSpace(translation)
		if text == "" {
			// A translation with no source text is useless.
			continue
		}
		entries = append(entries, Entry{
			Text:           text,
			Translation:    translation,
			HasTranslation: found && translation != "",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}
