package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/lingocard/internal/cards"
	"codeberg.org/snonux/lingocard/internal/cli"
	"codeberg.org/snonux/lingocard/internal/quota"
	"codeberg.org/snonux/lingocard/internal/testutil"
	"codeberg.org/snonux/lingocard/internal/translator"
)

// newTestProcessor builds a processor with tight test limits: 2 scans
// and 2 flashcards per day.
func newTestProcessor(t *testing.T, provider translator.Provider) (*Processor, *strings.Builder) {
	t.Helper()

	flags := cli.NewFlags()
	flags.OutputDir = t.TempDir()

	tracker := quota.NewTracker(testutil.NewMockStore())
	gate := quota.NewGate(tracker, map[quota.Tier]quota.Limits{
		quota.TierFree: {OCRPerDay: 2, FlashcardsPerDay: 2, SwipeStreak: 3},
	}, nil)

	cardStore, err := cards.NewStore(flags.OutputDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var out strings.Builder
	p := &Processor{
		flags:   flags,
		orch:    translator.NewOrchestrator(provider),
		tracker: tracker,
		gate:    gate,
		cards:   cardStore,
		out:     &out,
	}
	return p, &out
}

func TestProcessTextPrintsResult(t *testing.T) {
	provider := &testutil.MockProvider{
		Translations: map[string]*translator.Response{
			"漢字です": {TranslatedText: "It's kanji", ReadingText: "漢字(かんじ)です"},
		},
	}
	p, out := newTestProcessor(t, provider)

	if err := p.ProcessText(t.Context(), "漢字です"); err != nil {
		t.Fatalf("ProcessText: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Japanese", "It's kanji", "漢字(かんじ)です"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// Without --save no card is stored.
	saved, _ := p.cards.List()
	if len(saved) != 0 {
		t.Errorf("cards saved without --save: %+v", saved)
	}
}

func TestProcessTextSaves(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, _ := newTestProcessor(t, provider)
	p.flags.Save = true

	if err := p.ProcessText(t.Context(), "привет"); err != nil {
		t.Fatalf("ProcessText: %v", err)
	}

	saved, err := p.cards.List()
	if err != nil || len(saved) != 1 {
		t.Fatalf("saved = %+v, err = %v", saved, err)
	}
	if saved[0].Text != "привет" {
		t.Errorf("card text = %q", saved[0].Text)
	}
	if p.tracker.Count(quota.KindFlashcard) != 1 {
		t.Errorf("flashcard count = %d", p.tracker.Count(quota.KindFlashcard))
	}
}

func TestSaveSameTextDoesNotDoubleCount(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, _ := newTestProcessor(t, provider)
	p.flags.Save = true

	for range 2 {
		if err := p.ProcessText(t.Context(), "привет"); err != nil {
			t.Fatalf("ProcessText: %v", err)
		}
	}

	if got := p.tracker.Count(quota.KindFlashcard); got != 1 {
		t.Errorf("flashcard count = %d, want 1 (dedup)", got)
	}
	saved, _ := p.cards.List()
	if len(saved) != 1 {
		t.Errorf("cards = %d, want 1", len(saved))
	}
}

func TestFlashcardLimitBlocksSave(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, _ := newTestProcessor(t, provider)
	p.flags.Save = true

	for _, text := range []string{"uno", "dos"} {
		if err := p.ProcessText(t.Context(), text); err != nil {
			t.Fatalf("ProcessText(%s): %v", text, err)
		}
	}

	err := p.ProcessText(t.Context(), "tres")
	if err == nil || !strings.Contains(err.Error(), "flashcard limit") {
		t.Fatalf("err = %v, want flashcard limit error", err)
	}

	saved, _ := p.cards.List()
	if len(saved) != 2 {
		t.Errorf("cards = %d, want 2", len(saved))
	}
}

func TestProcessScanFile(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, _ := newTestProcessor(t, provider)

	scan := filepath.Join(t.TempDir(), "scan.txt")
	if err := os.WriteFile(scan, []byte("Пожарный выход\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := p.ProcessScanFile(t.Context(), scan); err != nil {
		t.Fatalf("ProcessScanFile: %v", err)
	}
	if got := p.tracker.Count(quota.KindOCR); got != 1 {
		t.Errorf("OCR count = %d", got)
	}

	// Rescanning identical content does not consume quota again.
	if err := p.ProcessScanFile(t.Context(), scan); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if got := p.tracker.Count(quota.KindOCR); got != 1 {
		t.Errorf("OCR count after rescan = %d, want 1", got)
	}
}

func TestScanLimitBlocks(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, _ := newTestProcessor(t, provider)

	dir := t.TempDir()
	for i, content := range []string{"uno", "dos"} {
		path := filepath.Join(dir, "scan.txt")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if err := p.ProcessScanFile(t.Context(), path); err != nil {
			t.Fatalf("scan %d: %v", i, err)
		}
	}

	path := filepath.Join(dir, "scan.txt")
	if err := os.WriteFile(path, []byte("tres"), 0644); err != nil {
		t.Fatal(err)
	}
	err := p.ProcessScanFile(t.Context(), path)
	if err == nil || !strings.Contains(err.Error(), "OCR limit") {
		t.Fatalf("err = %v, want OCR limit error", err)
	}
}

func TestScanFileEmpty(t *testing.T) {
	p, _ := newTestProcessor(t, &testutil.MockProvider{})

	path := filepath.Join(t.TempDir(), "scan.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := p.ProcessScanFile(t.Context(), path); err == nil {
		t.Error("expected error for empty scan file")
	}
	if got := p.tracker.Count(quota.KindOCR); got != 0 {
		t.Errorf("empty scan consumed quota: %d", got)
	}
}

func TestRecordSwipeStreak(t *testing.T) {
	p, out := newTestProcessor(t, &testutil.MockProvider{})

	for range 2 {
		if err := p.RecordSwipe(true); err != nil {
			t.Fatalf("RecordSwipe: %v", err)
		}
	}
	if strings.Contains(out.String(), "Streak!") {
		t.Error("streak announced before threshold")
	}

	if err := p.RecordSwipe(true); err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if !strings.Contains(out.String(), "Streak!") {
		t.Errorf("streak not announced at threshold:\n%s", out.String())
	}

	// Left swipes count separately and never trigger the streak.
	if err := p.RecordSwipe(false); err != nil {
		t.Fatalf("RecordSwipe: %v", err)
	}
	if got := p.tracker.Count(quota.KindSwipeLeft); got != 1 {
		t.Errorf("left swipes = %d", got)
	}
}

func TestProcessBatchProvidedTranslations(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, out := newTestProcessor(t, provider)
	p.flags.Save = true

	batchFile := filepath.Join(t.TempDir(), "batch.txt")
	content := "Пожарный выход = Fire exit\nこんにちは\n"
	if err := os.WriteFile(batchFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	p.flags.BatchFile = batchFile

	if err := p.ProcessBatch(t.Context()); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}

	// Only the entry without a translation reaches the provider.
	if got := provider.CallCount(); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
	saved, _ := p.cards.List()
	if len(saved) != 2 {
		t.Errorf("cards = %d, want 2", len(saved))
	}
	if !strings.Contains(out.String(), "Batch Processing Summary") {
		t.Error("missing batch summary")
	}
}

func TestProcessBatchSkipsSavedCards(t *testing.T) {
	provider := &testutil.MockProvider{}
	p, out := newTestProcessor(t, provider)
	p.flags.Save = true

	if _, err := p.cards.Save(cards.Card{Text: "こんにちは", Translation: "hello"}); err != nil {
		t.Fatal(err)
	}

	batchFile := filepath.Join(t.TempDir(), "batch.txt")
	if err := os.WriteFile(batchFile, []byte("こんにちは\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p.flags.BatchFile = batchFile

	if err := p.ProcessBatch(t.Context()); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if provider.CallCount() != 0 {
		t.Error("provider called for an already saved card")
	}
	if !strings.Contains(out.String(), "already saved") {
		t.Errorf("missing skip notice:\n%s", out.String())
	}
}

func TestResetCounters(t *testing.T) {
	p, _ := newTestProcessor(t, &testutil.MockProvider{})

	if _, err := p.tracker.Increment(quota.KindOCR, ""); err != nil {
		t.Fatal(err)
	}
	if err := p.ResetCounters(); err != nil {
		t.Fatalf("ResetCounters: %v", err)
	}
	if got := p.tracker.Count(quota.KindOCR); got != 0 {
		t.Errorf("OCR count after reset = %d", got)
	}
}

func TestGenerateAnkiFileCSV(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, _ := newTestProcessor(t, &testutil.MockProvider{})
	p.flags.AnkiCSV = true
	if _, err := p.cards.Save(cards.Card{Text: "привет", Translation: "hello", Label: "Russian"}); err != nil {
		t.Fatal(err)
	}

	path, err := p.GenerateAnkiFile()
	if err != nil {
		t.Fatalf("GenerateAnkiFile: %v", err)
	}
	if filepath.Dir(path) != home {
		t.Errorf("output path = %q, want under %q", path, home)
	}
	testutil.AssertFileContains(t, path, "привет")
}
