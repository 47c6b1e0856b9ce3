package cards

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/lingocard/internal"
)

// Card is one saved flashcard.
type Card struct {
	ID          string
	Text        string // the captured source text (card front)
	Label       string // resolved display language
	Translation string
	Reading     string // annotated reading text, may be empty
}

// Per-card file names inside a card directory.
const (
	textFile        = "text.txt"
	labelFile       = "label.txt"
	translationFile = "translation.txt"
	readingFile     = "reading.txt"
)

// Store keeps cards as directories under a base path.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cards directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's base directory.
func (s *Store) Dir() string { return s.dir }

// Save writes the card to disk and returns its ID. Saving text that is
// already stored returns the existing card's ID without duplicating it,
// so repeated saves of the same capture stay idempotent.
func (s *Store) Save(card Card) (string, error) {
	if existing := s.findByText(card.Text); existing != "" {
		return existing, nil
	}

	id := internal.GenerateCardID(card.Text)
	cardDir := filepath.Join(s.dir, id)
	if err := os.MkdirAll(cardDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create card directory: %w", err)
	}

	files := map[string]string{
		textFile:        card.Text,
		labelFile:       card.Label,
		translationFile: card.Translation,
		readingFile:     card.Reading,
	}
	for name, content := range files {
		if content == "" && name != textFile {
			continue
		}
		path := filepath.Join(cardDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	return id, nil
}

// Find returns the ID of the card storing exactly this text, or "".
func (s *Store) Find(text string) string {
	return s.findByText(text)
}

// Get loads a card by ID.
func (s *Store) Get(id string) (*Card, error) {
	cardDir := filepath.Join(s.dir, id)
	if _, err := os.Stat(cardDir); err != nil {
		return nil, fmt.Errorf("card %s not found", id)
	}
	card := &Card{ID: id}
	card.Text = readOptional(filepath.Join(cardDir, textFile))
	if card.Text == "" {
		return nil, fmt.Errorf("card %s has no text", id)
	}
	card.Label = readOptional(filepath.Join(cardDir, labelFile))
	card.Translation = readOptional(filepath.Join(cardDir, translationFile))
	card.Reading = readOptional(filepath.Join(cardDir, readingFile))
	return card, nil
}

// List returns all saved cards in directory order.
func (s *Store) List() ([]Card, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards directory: %w", err)
	}

	var cards []Card
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		card, err := s.Get(entry.Name())
		if err != nil {
			// Leftover or partial directories are skipped, not fatal.
			continue
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

func (s *Store) findByText(text string) string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		stored := readOptional(filepath.Join(s.dir, entry.Name(), textFile))
		if stored != "" && stored == text {
			return entry.Name()
		}
	}
	return ""
}

func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DefaultDir returns the XDG state directory for saved cards.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "lingocard", "cards")
}
