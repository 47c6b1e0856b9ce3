package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/lingocard/internal"
	"codeberg.org/snonux/lingocard/internal/anki"
	"codeberg.org/snonux/lingocard/internal/batch"
	"codeberg.org/snonux/lingocard/internal/cards"
	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/quota"
	"codeberg.org/snonux/lingocard/internal/ruby"
	"codeberg.org/snonux/lingocard/internal/script"
	"codeberg.org/snonux/lingocard/internal/translator"
)

// Processor wires the translation pipeline, usage gating and card
// storage behind the command-line surface.
type Processor struct {
	flags   *cli.Flags
	orch    *translator.Orchestrator
	tracker *quota.Tracker
	gate    *quota.Gate
	cards   *cards.Store

	out     io.Writer
	quotaDB io.Closer
}

// NewProcessor creates a processor from the parsed flags. Call Close
// when done to release the usage counter database.
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	store, err := quota.OpenSQLiteStore(flags.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage counter database: %w", err)
	}

	var trackerOpts []quota.TrackerOption
	if flags.StrictQuota {
		trackerOpts = append(trackerOpts, quota.WithFailClosed())
	}
	tracker := quota.NewTracker(store, trackerOpts...)
	gate := quota.NewGate(tracker, nil, func() quota.Tier {
		return quota.ParseTier(flags.Tier)
	})

	cardStore, err := cards.NewStore(flags.OutputDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	provider := translator.NewOpenAIProvider(cli.GetOpenAIKey(), flags.OpenAIModel)
	var orchOpts []translator.OrchestratorOption
	if annotator, err := ruby.NewAnnotator(); err == nil {
		orchOpts = append(orchOpts, translator.WithAnnotator(annotator))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: local reading annotator unavailable: %v\n", err)
	}

	return &Processor{
		flags:   flags,
		orch:    translator.NewOrchestrator(provider, orchOpts...),
		tracker: tracker,
		gate:    gate,
		cards:   cardStore,
		out:     os.Stdout,
		quotaDB: store,
	}, nil
}

// Close releases the usage counter database.
func (p *Processor) Close() error {
	if p.quotaDB != nil {
		return p.quotaDB.Close()
	}
	return nil
}

// ProcessText translates a single captured text and prints the result.
// With --save the outcome is also stored as a flashcard.
func (p *Processor) ProcessText(ctx context.Context, text string) error {
	outcome, err := p.orch.Translate(ctx, text, p.flags.TargetLang, p.flags.ForcedLang)
	if err != nil {
		return err
	}
	p.printOutcome(outcome)

	if p.flags.Save {
		return p.saveOutcome(outcome)
	}
	return nil
}

// ProcessScanFile processes an OCR text dump. The scan counts against
// the daily OCR quota; re-scanning identical content is deduplicated
// and does not consume quota twice.
func (p *Processor) ProcessScanFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scan file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return fmt.Errorf("scan file %s is empty", path)
	}

	if !p.gate.CanPerform(quota.KindOCR) {
		return fmt.Errorf("daily OCR limit reached (tier %s), try again tomorrow or upgrade", p.flags.Tier)
	}
	if _, err := p.tracker.Increment(quota.KindOCR, internal.DedupKey(text)); err != nil {
		return fmt.Errorf("OCR quota: %w", err)
	}
	fmt.Fprintf(p.out, "Scans remaining today: %d\n", p.gate.Remaining(quota.KindOCR))

	return p.ProcessText(ctx, text)
}

// ProcessBatch processes all captured texts from the batch file.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	skippedCount := 0
	processedCount := 0
	errorCount := 0

	for i, entry := range entries {
		fmt.Fprintf(p.out, "\nProcessing %d/%d: %s\n", i+1, len(entries), entry.Text)

		if p.flags.Save && p.cards.Find(entry.Text) != "" {
			fmt.Fprintf(p.out, "  Skipping, already saved\n")
			skippedCount++
			continue
		}

		var err error
		if entry.HasTranslation {
			// Translation supplied in the file, no provider call needed.
			err = p.saveProvidedTranslation(entry)
		} else {
			err = p.ProcessText(ctx, entry.Text)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing '%s': %v\n", entry.Text, err)
			errorCount++
		} else {
			processedCount++
		}
	}

	fmt.Fprintf(p.out, "\n=== Batch Processing Summary ===\n")
	fmt.Fprintf(p.out, "Total captures: %d\n", len(entries))
	fmt.Fprintf(p.out, "Processed: %d\n", processedCount)
	fmt.Fprintf(p.out, "Skipped (already saved): %d\n", skippedCount)
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "================================\n")

	return nil
}

// saveProvidedTranslation handles a batch entry whose translation is
// already known, classifying the text locally.
func (p *Processor) saveProvidedTranslation(entry batch.Entry) error {
	sig := script.Classify(entry.Text)
	label := script.NewClassifier().ResolveLabel(sig)
	fmt.Fprintf(p.out, "  Language: %s\n", label)
	fmt.Fprintf(p.out, "  Translation (provided): %s\n", entry.Translation)

	if !p.flags.Save {
		return nil
	}
	return p.saveOutcome(&translator.Outcome{
		Text:       entry.Text,
		Signature:  sig,
		Label:      label,
		Translated: entry.Translation,
	})
}

// RecordSwipe records a review swipe. Right swipes mark the card as
// known and feed the daily streak.
func (p *Processor) RecordSwipe(known bool) error {
	kind := quota.KindSwipeLeft
	if known {
		kind = quota.KindSwipeRight
	}
	count, err := p.tracker.Increment(kind, "")
	if err != nil {
		return fmt.Errorf("swipe counter: %w", err)
	}
	fmt.Fprintf(p.out, "Recorded swipe (%d today)\n", count)

	if known && p.tracker.Streak(quota.KindSwipeRight) {
		fmt.Fprintln(p.out, "Streak! You're on a roll today.")
	}
	return nil
}

// ResetCounters clears all usage counters.
func (p *Processor) ResetCounters() error {
	if err := p.tracker.ResetAll(); err != nil {
		return fmt.Errorf("failed to reset counters: %w", err)
	}
	fmt.Fprintln(p.out, "Usage counters reset")
	return nil
}

// GenerateAnkiFile exports all saved cards as an Anki deck and returns
// the output path.
func (p *Processor) GenerateAnkiFile() (string, error) {
	outputDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     filepath.Join(outputDir, "lingocard_import.csv"),
		DeckName:       p.flags.DeckName,
		IncludeHeaders: true,
	})
	if err := gen.LoadFromStore(p.cards); err != nil {
		return "", err
	}

	var outputPath string
	if p.flags.AnkiCSV {
		outputPath = filepath.Join(outputDir, "lingocard_import.csv")
		if err := gen.GenerateCSV(); err != nil {
			return "", fmt.Errorf("failed to generate CSV: %w", err)
		}
	} else {
		outputPath = filepath.Join(outputDir, fmt.Sprintf("%s.apkg", internal.SanitizeFilename(p.flags.DeckName)))
		if err := gen.GenerateAPKG(outputPath); err != nil {
			return "", fmt.Errorf("failed to generate APKG: %w", err)
		}
	}

	total, withReading, withTranslation := gen.Stats()
	fmt.Fprintf(p.out, "  Generated %d cards (%d with readings, %d with translations)\n",
		total, withReading, withTranslation)

	return outputPath, nil
}

// saveOutcome stores a completed translation as a flashcard, counting
// it against the daily flashcard quota. Saving the same text twice is
// deduplicated and does not consume quota again.
func (p *Processor) saveOutcome(outcome *translator.Outcome) error {
	if !p.gate.CanPerform(quota.KindFlashcard) {
		return fmt.Errorf("daily flashcard limit reached (tier %s), try again tomorrow or upgrade", p.flags.Tier)
	}

	id, err := p.cards.Save(cards.Card{
		Text:        outcome.Text,
		Label:       outcome.Label,
		Translation: outcome.Translated,
		Reading:     outcome.Reading,
	})
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	count, err := p.tracker.Increment(quota.KindFlashcard, internal.DedupKey(outcome.Text))
	if err != nil {
		return fmt.Errorf("flashcard quota: %w", err)
	}
	fmt.Fprintf(p.out, "  Saved card %s (%d today, %d remaining)\n",
		id, count, p.gate.Remaining(quota.KindFlashcard))
	return nil
}

// printOutcome renders a translation result for the terminal.
func (p *Processor) printOutcome(outcome *translator.Outcome) {
	fmt.Fprintf(p.out, "  Language: %s\n", outcome.Label)
	fmt.Fprintf(p.out, "  Translation: %s\n", outcome.Translated)
	if outcome.Reading != "" {
		fmt.Fprintf(p.out, "  Reading: %s\n", outcome.Reading)
	}
	for _, w := range outcome.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
}
