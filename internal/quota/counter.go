package quota

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Store is the durable key/value collaborator backing counter windows.
// Get returns ok=false when the key has never been written.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// DefaultStreakThreshold is the window count at which the streak signal
// latches.
const DefaultStreakThreshold = 3

// Tracker maintains one usage window per counter kind. All increments of
// the same kind are serialized through a per-kind mutex, so two rapid
// actions cannot interleave their read-modify-write cycles and lose an
// update.
type Tracker struct {
	store           Store
	now             func() time.Time
	failClosed      bool
	streakThreshold int

	mu    sync.Mutex
	locks map[Kind]*sync.Mutex
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithFailClosed makes storage errors block the metered action instead
// of the default fail-open behavior.
func WithFailClosed() TrackerOption {
	return func(t *Tracker) { t.failClosed = true }
}

// WithStreakThreshold overrides the count at which the streak latches.
func WithStreakThreshold(n int) TrackerOption {
	return func(t *Tracker) { t.streakThreshold = n }
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:           store,
		now:             time.Now,
		streakThreshold: DefaultStreakThreshold,
		locks:           make(map[Kind]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) lock(kind Kind) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[kind]
	if !ok {
		l = &sync.Mutex{}
		t.locks[kind] = l
	}
	return l
}

// load reads the current window for kind, rolling it over if expired.
// A read failure behaves as if no prior state existed unless the tracker
// is fail-closed.
func (t *Tracker) load(kind Kind) (Window, error) {
	now := t.now()

	raw, ok, err := t.store.Get(kind.StorageKey())
	if err != nil {
		if t.failClosed {
			return Window{}, fmt.Errorf("load %s counter: %w", kind, err)
		}
		fmt.Fprintf(os.Stderr, "Warning: %s counter unreadable, starting fresh: %v\n", kind, err)
		return freshWindow(now), nil
	}
	if !ok {
		return freshWindow(now), nil
	}

	w, err := decodeWindow(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s counter corrupted, starting fresh: %v\n", kind, err)
		return freshWindow(now), nil
	}
	if w.expired(kind, now) {
		return freshWindow(now), nil
	}
	return w, nil
}

// persist writes the window back. A write failure is logged and ignored
// unless the tracker is fail-closed.
func (t *Tracker) persist(kind Kind, w Window) error {
	raw, err := w.encode()
	if err == nil {
		err = t.store.Set(kind.StorageKey(), raw)
	}
	if err != nil {
		if t.failClosed {
			return fmt.Errorf("persist %s counter: %w", kind, err)
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to persist %s counter: %v\n", kind, err)
	}
	return nil
}

// Increment counts one action of the given kind and returns the new
// count. When dedupID is non-empty and was already counted in the
// current window, the count is returned unchanged — re-submitting the
// same item within one window is idempotent.
func (t *Tracker) Increment(kind Kind, dedupID string) (int, error) {
	l := t.lock(kind)
	l.Lock()
	defer l.Unlock()

	w, err := t.load(kind)
	if err != nil {
		return 0, err
	}

	if dedupID != "" {
		if w.hasDedup(dedupID) {
			return w.Count, nil
		}
		w.DedupKeys = append(w.DedupKeys, dedupID)
	}

	w.Count++
	if w.Count >= t.streakThreshold {
		w.Streak = true
	}

	if err := t.persist(kind, w); err != nil {
		return 0, err
	}
	return w.Count, nil
}

// Count returns the current window count for kind. Storage failures read
// as zero under the fail-open policy.
func (t *Tracker) Count(kind Kind) int {
	l := t.lock(kind)
	l.Lock()
	defer l.Unlock()

	w, err := t.load(kind)
	if err != nil {
		return 0
	}
	return w.Count
}

// Remaining returns how many actions are left under ceiling, never
// negative.
func (t *Tracker) Remaining(kind Kind, ceiling int) int {
	remaining := ceiling - t.Count(kind)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Streak reports whether the streak signal has latched in the current
// window. Once true it stays true until the window rolls over.
func (t *Tracker) Streak(kind Kind) bool {
	l := t.lock(kind)
	l.Lock()
	defer l.Unlock()

	w, err := t.load(kind)
	if err != nil {
		return false
	}
	return w.Streak
}

// Reset forces the kind's window back to zero. Manual/administrative use
// only; normal rollover happens automatically on load.
func (t *Tracker) Reset(kind Kind) error {
	l := t.lock(kind)
	l.Lock()
	defer l.Unlock()

	return t.persist(kind, freshWindow(t.now()))
}

// ResetAll resets every counter kind.
func (t *Tracker) ResetAll() error {
	for _, kind := range Kinds {
		if err := t.Reset(kind); err != nil {
			return err
		}
	}
	return nil
}
