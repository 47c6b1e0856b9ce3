package cli

import (
	"os"
	"path/filepath"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile       string
	OutputDir     string // where saved cards live
	TargetLang    string // translation target language code
	ForcedLang    string // forced source language code, "auto" to detect
	Tier          string // subscription tier (FREE or PREMIUM)
	Save          bool   // save the result as a flashcard
	BatchFile     string
	ScanFile      string // OCR text dump to process
	SwipeRight    bool
	SwipeLeft     bool
	GenerateAnki  bool
	AnkiCSV       bool
	DeckName      string
	DBPath        string // usage counter database
	StrictQuota   bool   // treat counter storage failures as quota exhausted
	ResetCounters bool
	ListModels    bool
	ArchiveCards  bool

	// OpenAI flags
	OpenAIModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		TargetLang:  "en",
		ForcedLang:  "auto",
		Tier:        "FREE",
		DeckName:    "LingoCard",
		OpenAIModel: "gpt-4o",
	}
}

// DefaultStateDir returns the XDG state directory for lingocard.
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "lingocard")
}
