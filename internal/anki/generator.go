package anki

import (
	"encoding/csv"
	"fmt"
	"html"
	"os"
	"strings"

	"codeberg.org/snonux/lingocard/internal/cards"
	"codeberg.org/snonux/lingocard/internal/ruby"
)

// Card is one flashcard prepared for export.
type Card struct {
	Front       string // the captured text in its original script
	Reading     string // annotated reading text, e.g. 漢字(かんじ)です
	Translation string
	Label       string // display language label, used as a tag
	Notes       string
}

// GeneratorOptions configures the export.
type GeneratorOptions struct {
	OutputPath     string // output CSV file path
	DeckName       string // deck name for .apkg export
	IncludeHeaders bool   // include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults.
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "lingocard_import.csv",
		DeckName:       "LingoCard",
		IncludeHeaders: true,
	}
}

// Generator collects cards and writes Anki-compatible import files.
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new generator.
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection.
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GetCards returns a slice of all cards for modification.
func (g *Generator) GetCards() []Card {
	return g.cards
}

// LoadFromStore adds every saved card from the store.
func (g *Generator) LoadFromStore(store *cards.Store) error {
	saved, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	for _, c := range saved {
		g.AddCard(Card{
			Front:       c.Text,
			Reading:     c.Reading,
			Translation: c.Translation,
			Label:       c.Label,
		})
	}
	return nil
}

// GenerateCSV creates a CSV file for Anki import.
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if g.options.IncludeHeaders {
		headers := []string{"Front", "Reading", "Translation", "Language", "Notes"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Front,
			rubyHTML(card.Reading),
			card.Translation,
			card.Label,
			card.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	return nil
}

// GenerateAPKG creates a proper .apkg file for Anki import.
func (g *Generator) GenerateAPKG(outputPath string) error {
	apkgGen := NewAPKGGenerator(g.options.DeckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection.
func (g *Generator) Stats() (totalCards, withReading, withTranslation int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.Reading != "" {
			withReading++
		}
		if card.Translation != "" {
			withTranslation++
		}
	}
	return
}

// rubyHTML converts annotated reading text into HTML <ruby> markup so
// Anki renders each reading stacked above its base text. Words without
// a reading pass through as plain text.
func rubyHTML(reading string) string {
	if reading == "" {
		return ""
	}
	var b strings.Builder
	for _, w := range ruby.Parse(reading) {
		if !w.Annotated() {
			b.WriteString(html.EscapeString(w.Base))
			continue
		}
		fmt.Fprintf(&b, "<ruby>%s<rt>%s</rt></ruby>",
			html.EscapeString(w.Base), html.EscapeString(w.Reading))
	}
	return b.String()
}
