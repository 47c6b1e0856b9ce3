package cards

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirIn(dir, name string) error {
	return os.MkdirAll(filepath.Join(dir, name), 0755)
}

func TestSaveAndGet(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	id, err := store.Save(Card{
		Text:        "漢字です",
		Label:       "Japanese",
		Translation: "It's kanji",
		Reading:     "漢字(かんじ)です",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty card ID")
	}

	card, err := store.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if card.Text != "漢字です" || card.Translation != "It's kanji" || card.Reading != "漢字(かんじ)です" {
		t.Errorf("roundtrip mismatch: %+v", card)
	}
}

func TestSaveIdempotentByText(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	first, err := store.Save(Card{Text: "привет", Translation: "hello"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := store.Save(Card{Text: "привет", Translation: "hi"})
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if first != second {
		t.Errorf("duplicate save created new card: %s vs %s", first, second)
	}

	cards, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cards) != 1 {
		t.Errorf("want 1 card, got %d", len(cards))
	}
}

func TestFind(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if got := store.Find("missing"); got != "" {
		t.Errorf("Find(missing) = %q", got)
	}

	id, _ := store.Save(Card{Text: "mañana"})
	if got := store.Find("mañana"); got != id {
		t.Errorf("Find = %q, want %q", got, id)
	}
}

func TestListSkipsPartialDirectories(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	store.Save(Card{Text: "uno", Translation: "one"})

	// A directory with no text file is skipped.
	if err := mkdirIn(dir, "corrupt_card"); err != nil {
		t.Fatal(err)
	}

	cards, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cards) != 1 || cards[0].Text != "uno" {
		t.Errorf("List = %+v", cards)
	}
}

func TestGetMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Get("nope"); err == nil {
		t.Error("Get(nope) should fail")
	}
}
