package translator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/snonux/lingocard/internal/ruby"
	"codeberg.org/snonux/lingocard/internal/script"
)

// State is the orchestrator's per-request phase.
type State int

const (
	StateIdle State = iota
	StateClassifying
	StateValidating
	StateCalling
	StateSucceeded
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "Idle",
	StateClassifying: "Classifying",
	StateValidating:  "Validating",
	StateCalling:     "Calling",
	StateSucceeded:   "Succeeded",
	StateFailed:      "Failed",
}

func (s State) String() string {
	if int(s) >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is a completed translation ready for display and saving.
type Outcome struct {
	Text      string
	Signature script.Signature
	Label     string

	Translated string
	Reading    string
	Words      []ruby.Word

	// Warnings are non-fatal diagnostics (missing romanization,
	// suspect annotations). The outcome is usable regardless.
	Warnings []string
}

// Annotator generates annotated reading text locally. Optional fallback
// when the provider returns none.
type Annotator interface {
	Annotate(text string) string
}

// DefaultCallTimeout bounds the provider call; expiry reads as a
// provider error.
const DefaultCallTimeout = 30 * time.Second

// Orchestrator runs the full pipeline for one input at a time:
// Idle → Classifying → Validating → Calling → Succeeded|Failed.
// Each call gets a monotonically increasing token; a response whose
// token is no longer the latest is discarded so a stale provider reply
// cannot overwrite a newer pending request. The last successful outcome
// is kept until a newer request actually succeeds.
type Orchestrator struct {
	provider   Provider
	classifier *script.Classifier
	annotator  Annotator
	timeout    time.Duration

	latest atomic.Uint64

	mu    sync.Mutex
	state State
	last  *Outcome
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithAnnotator installs a local reading fallback for Japanese text.
func WithAnnotator(a Annotator) OrchestratorOption {
	return func(o *Orchestrator) { o.annotator = a }
}

// WithCallTimeout overrides the provider call timeout.
func WithCallTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithClassifier substitutes the label classifier (e.g. a custom
// priority order).
func WithClassifier(c *script.Classifier) OrchestratorOption {
	return func(o *Orchestrator) { o.classifier = c }
}

// NewOrchestrator creates an orchestrator over the given provider.
func NewOrchestrator(provider Provider, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		provider:   provider,
		classifier: script.NewClassifier(),
		timeout:    DefaultCallTimeout,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current pipeline phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Last returns the most recent successful outcome, or nil. It is only
// replaced when a newer request succeeds; failures and stale responses
// leave it untouched.
func (o *Orchestrator) Last() *Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Translate runs the pipeline on text. Classification and validation are
// re-run from scratch on every call, so edited input is always
// re-validated. On a forced-language mismatch the provider is never
// called.
func (o *Orchestrator) Translate(ctx context.Context, text, targetLanguage, forcedLanguage string) (*Outcome, error) {
	token := o.latest.Add(1)

	o.setState(StateClassifying)
	sig := script.Classify(text)
	label := o.classifier.ResolveLabel(sig)

	o.setState(StateValidating)
	if !script.ValidateForcedLanguage(text, forcedLanguage) {
		o.setState(StateFailed)
		return nil, &MismatchError{Expected: script.FromCode(forcedLanguage)}
	}

	o.setState(StateCalling)
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.provider.Translate(callCtx, Request{
		Text:           text,
		TargetLanguage: targetLanguage,
		ForcedLanguage: forcedLanguage,
	})

	if token != o.latest.Load() {
		// A newer request is in flight or finished; this response must
		// not touch the orchestrator's visible state.
		return nil, ErrStaleRequest
	}

	if err != nil {
		o.setState(StateFailed)
		return nil, &ProviderError{Err: err}
	}

	outcome := &Outcome{
		Text:       text,
		Signature:  sig,
		Label:      label,
		Translated: resp.TranslatedText,
		Reading:    resp.ReadingText,
	}

	if outcome.Reading == "" && script.NeedsRomanizationFor(sig) {
		if o.annotator != nil && sig.Has(script.Japanese) {
			outcome.Reading = o.annotator.Annotate(text)
			outcome.Warnings = append(outcome.Warnings, "reading generated locally from dictionary")
		}
		if outcome.Reading == "" {
			outcome.Warnings = append(outcome.Warnings, "romanization unavailable")
		}
	}

	if outcome.Reading != "" {
		parser := ruby.Parser{OnDiagnostic: func(d ruby.Diagnostic) {
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("suspect reading %q for %q: %s", d.Reading, d.Base, d.Reason))
		}}
		outcome.Words = parser.Parse(outcome.Reading)
	}

	o.mu.Lock()
	o.state = StateSucceeded
	o.last = outcome
	o.mu.Unlock()

	return outcome, nil
}
