package anki

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/lingocard/internal/cards"
)

func TestGenerateCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "import.csv")
	gen := NewGenerator(&GeneratorOptions{OutputPath: out, IncludeHeaders: true})
	gen.AddCard(Card{
		Front:       "漢字です",
		Reading:     "漢字(かんじ)です",
		Translation: "It's kanji",
		Label:       "Japanese",
	})
	gen.AddCard(Card{
		Front:       "привет",
		Translation: "hello",
		Label:       "Russian",
	})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"Front,Reading,Translation,Language,Notes",
		"<ruby>漢字<rt>かんじ</rt></ruby>です",
		"It's kanji",
		"привет,,hello,Russian",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("CSV missing %q:\n%s", want, content)
		}
	}
}

func TestGenerateCSVNoHeaders(t *testing.T) {
	out := filepath.Join(t.TempDir(), "import.csv")
	gen := NewGenerator(&GeneratorOptions{OutputPath: out})
	gen.AddCard(Card{Front: "hola", Translation: "hello"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV: %v", err)
	}
	data, _ := os.ReadFile(out)
	if strings.Contains(string(data), "Front,") {
		t.Error("headers written despite IncludeHeaders=false")
	}
}

func TestLoadFromStore(t *testing.T) {
	store, err := cards.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Save(cards.Card{
		Text:        "こんにちは",
		Label:       "Japanese",
		Translation: "hello",
	}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gen := NewGenerator(nil)
	if err := gen.LoadFromStore(store); err != nil {
		t.Fatalf("LoadFromStore: %v", err)
	}
	got := gen.GetCards()
	if len(got) != 1 {
		t.Fatalf("cards = %d, want 1", len(got))
	}
	if got[0].Front != "こんにちは" || got[0].Translation != "hello" {
		t.Errorf("card = %+v", got[0])
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Front: "a", Reading: "a(b)", Translation: "x"})
	gen.AddCard(Card{Front: "b"})

	total, withReading, withTranslation := gen.Stats()
	if total != 2 || withReading != 1 || withTranslation != 1 {
		t.Errorf("Stats = %d, %d, %d", total, withReading, withTranslation)
	}
}

func TestRubyHTML(t *testing.T) {
	tests := []struct {
		name    string
		reading string
		want    string
	}{
		{
			name:    "annotated and plain mix",
			reading: "漢字(かんじ)です",
			want:    "<ruby>漢字<rt>かんじ</rt></ruby>です",
		},
		{
			name:    "plain text passes through",
			reading: "привет",
			want:    "привет",
		},
		{
			name:    "empty",
			reading: "",
			want:    "",
		},
		{
			name:    "html escaped",
			reading: "<b>(x)",
			want:    "<ruby>&lt;b&gt;<rt>x</rt></ruby>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rubyHTML(tt.reading); got != tt.want {
				t.Errorf("rubyHTML(%q) = %q, want %q", tt.reading, got, tt.want)
			}
		})
	}
}
