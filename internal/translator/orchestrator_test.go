package translator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubProvider records calls and serves scripted responses.
type stubProvider struct {
	mu       sync.Mutex
	calls    []Request
	response *Response
	err      error
	block    chan struct{} // when non-nil, Translate waits for it
}

func (s *stubProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestTranslateSuccess(t *testing.T) {
	provider := &stubProvider{response: &Response{
		TranslatedText: "It's kanji",
		ReadingText:    "漢字(かんじ)です",
	}}
	o := NewOrchestrator(provider)

	outcome, err := o.Translate(context.Background(), "漢字です", "en", "auto")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if outcome.Label != "Japanese" {
		t.Errorf("label = %q", outcome.Label)
	}
	if outcome.Translated != "It's kanji" {
		t.Errorf("translated = %q", outcome.Translated)
	}
	if len(outcome.Words) != 2 || outcome.Words[0].Reading != "かんじ" {
		t.Errorf("words = %v", outcome.Words)
	}
	if len(outcome.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", outcome.Warnings)
	}
	if o.State() != StateSucceeded {
		t.Errorf("state = %v", o.State())
	}
	if o.Last() != outcome {
		t.Error("Last() not updated")
	}
}

func TestForcedLanguageMismatchFailsFast(t *testing.T) {
	provider := &stubProvider{response: &Response{TranslatedText: "x"}}
	o := NewOrchestrator(provider)

	_, err := o.Translate(context.Background(), "Bonjour", "en", "ja")

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want MismatchError", err)
	}
	if provider.callCount() != 0 {
		t.Error("provider called despite failed validation")
	}
	if o.State() != StateFailed {
		t.Errorf("state = %v", o.State())
	}
}

func TestProviderErrorRetryable(t *testing.T) {
	provider := &stubProvider{err: errors.New("boom")}
	o := NewOrchestrator(provider)

	// First a success to establish a displayed result.
	provider.err = nil
	provider.response = &Response{TranslatedText: "hello"}
	first, err := o.Translate(context.Background(), "привет", "en", "auto")
	if err != nil {
		t.Fatalf("setup translate: %v", err)
	}

	// Failure must not clobber the previous success.
	provider.err = errors.New("unreachable")
	_, err = o.Translate(context.Background(), "привет мир", "en", "auto")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if o.State() != StateFailed {
		t.Errorf("state = %v", o.State())
	}
	if o.Last() != first {
		t.Error("failed retry overwrote last successful outcome")
	}

	// Retry from scratch succeeds and replaces it.
	provider.err = nil
	provider.response = &Response{TranslatedText: "hello world"}
	second, err := o.Translate(context.Background(), "привет мир", "en", "auto")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if o.Last() != second {
		t.Error("retry success did not update last outcome")
	}
}

func TestRomanizationUnavailableWarning(t *testing.T) {
	provider := &stubProvider{response: &Response{TranslatedText: "hello"}}
	o := NewOrchestrator(provider)

	outcome, err := o.Translate(context.Background(), "안녕하세요", "en", "auto")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	found := false
	for _, w := range outcome.Warnings {
		if strings.Contains(w, "romanization unavailable") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing romanization warning: %v", outcome.Warnings)
	}
	if outcome.Translated != "hello" {
		t.Error("translation should still be usable")
	}
}

func TestNoRomanizationWarningForLatinScripts(t *testing.T) {
	provider := &stubProvider{response: &Response{TranslatedText: "hello"}}
	o := NewOrchestrator(provider)

	outcome, err := o.Translate(context.Background(), "Bonjour, ça va?", "en", "auto")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(outcome.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", outcome.Warnings)
	}
}

type fixedAnnotator struct{ out string }

func (f fixedAnnotator) Annotate(string) string { return f.out }

func TestLocalAnnotatorFallback(t *testing.T) {
	provider := &stubProvider{response: &Response{TranslatedText: "It's kanji"}}
	o := NewOrchestrator(provider, WithAnnotator(fixedAnnotator{out: "漢字(かんじ)です"}))

	outcome, err := o.Translate(context.Background(), "漢字です", "en", "auto")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if outcome.Reading != "漢字(かんじ)です" {
		t.Errorf("reading = %q", outcome.Reading)
	}
	if len(outcome.Words) == 0 {
		t.Error("no words parsed from fallback reading")
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	block := make(chan struct{})
	provider := &stubProvider{
		response: &Response{TranslatedText: "old"},
		block:    block,
	}
	o := NewOrchestrator(provider)

	done := make(chan error, 1)
	go func() {
		_, err := o.Translate(context.Background(), "первый", "en", "auto")
		done <- err
	}()

	// Wait for the first request to reach the provider, then resubmit.
	for provider.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	provider.mu.Lock()
	provider.block = nil
	provider.response = &Response{TranslatedText: "new"}
	provider.mu.Unlock()

	second, err := o.Translate(context.Background(), "второй", "en", "auto")
	if err != nil {
		t.Fatalf("second translate: %v", err)
	}

	close(block)
	if err := <-done; !errors.Is(err, ErrStaleRequest) {
		t.Fatalf("first request err = %v, want ErrStaleRequest", err)
	}
	if o.Last() != second {
		t.Error("stale response overwrote the newer outcome")
	}
	if o.Last().Translated != "new" {
		t.Errorf("last translated = %q", o.Last().Translated)
	}
}

func TestClassificationDeterministic(t *testing.T) {
	provider := &stubProvider{response: &Response{TranslatedText: "x"}}
	o := NewOrchestrator(provider)

	first, err := o.Translate(context.Background(), "こんにちは世界", "en", "auto")
	if err != nil {
		t.Fatal(err)
	}
	second, err := o.Translate(context.Background(), "こんにちは世界", "en", "auto")
	if err != nil {
		t.Fatal(err)
	}
	if first.Signature != second.Signature || first.Label != second.Label {
		t.Error("classification differs across identical runs")
	}
}

func TestTruncatedReadingWarning(t *testing.T) {
	provider := &stubProvider{response: &Response{
		TranslatedText: "station",
		ReadingText:    "新幹線駅(し)",
	}}
	o := NewOrchestrator(provider)

	outcome, err := o.Translate(context.Background(), "新幹線駅", "en", "auto")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(outcome.Words) != 1 {
		t.Fatalf("words = %v", outcome.Words)
	}
	found := false
	for _, w := range outcome.Warnings {
		if strings.Contains(w, "suspect reading") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing truncation warning: %v", outcome.Warnings)
	}
}

func TestStateString(t *testing.T) {
	if StateCalling.String() != "Calling" || StateIdle.String() != "Idle" {
		t.Error("state names broken")
	}
}
