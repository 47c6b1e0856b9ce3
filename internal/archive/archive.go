// Package archive rotates the saved-cards directory aside so a fresh
// collection can be started without losing the old one.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// now is swapped out in tests.
var now = time.Now

// ArchiveCards moves the cards directory into a timestamped sibling
// under <parent>/archive and returns the new path.
func ArchiveCards(cardsDir string) (string, error) {
	if _, err := os.Stat(cardsDir); os.IsNotExist(err) {
		return "", fmt.Errorf("cards directory does not exist: %s", cardsDir)
	}

	archiveDir := filepath.Join(filepath.Dir(cardsDir), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("cards-%s", timestamp))
	if _, err := os.Stat(archivePath); err == nil {
		// Same-second collision, make it unique with microseconds.
		timestamp = now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("cards-%s", timestamp))
	}

	if err := os.Rename(cardsDir, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive cards directory: %w", err)
	}
	return archivePath, nil
}
