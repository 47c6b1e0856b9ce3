package quota

import (
	"encoding/json"
	"time"
)

// Kind identifies a metered action.
type Kind string

const (
	KindOCR        Kind = "ocr"
	KindFlashcard  Kind = "flashcard"
	KindSwipeRight Kind = "swipeRight"
	KindSwipeLeft  Kind = "swipeLeft"
)

// Kinds lists every metered action.
var Kinds = []Kind{KindOCR, KindFlashcard, KindSwipeRight, KindSwipeLeft}

// StorageKey returns the key/value store key for this kind's window.
func (k Kind) StorageKey() string {
	return string(k) + "_counter_daily"
}

// calendarDay reports whether the kind resets on the caller's local
// calendar day instead of a rolling 24h window. Swipe counters follow
// the local day so resets don't land at odd local hours.
func (k Kind) calendarDay() bool {
	return k == KindSwipeRight || k == KindSwipeLeft
}

const rollingWindow = 24 * time.Hour

// Window is the persisted counter state for one kind. Serialized as JSON
// in the key/value store.
type Window struct {
	Count       int       `json:"count"`
	WindowStart time.Time `json:"window_start"`
	DedupKeys   []string  `json:"dedup_keys,omitempty"`
	// Streak latches true once Count reaches the streak threshold and
	// stays true for the rest of the window.
	Streak bool `json:"streak,omitempty"`
}

// expired reports whether the window has rolled over at time now.
func (w Window) expired(kind Kind, now time.Time) bool {
	if kind.calendarDay() {
		y1, m1, d1 := w.WindowStart.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 != y2 || m1 != m2 || d1 != d2
	}
	return now.Sub(w.WindowStart) >= rollingWindow
}

// hasDedup reports whether id was already counted in this window.
func (w Window) hasDedup(id string) bool {
	for _, k := range w.DedupKeys {
		if k == id {
			return true
		}
	}
	return false
}

func freshWindow(now time.Time) Window {
	return Window{WindowStart: now}
}

func decodeWindow(raw string) (Window, error) {
	var w Window
	err := json.Unmarshal([]byte(raw), &w)
	return w, err
}

func (w Window) encode() (string, error) {
	data, err := json.Marshal(w)
	return string(data), err
}
