package quota

import "math"

// Tier is a subscription tier.
type Tier string

const (
	TierFree    Tier = "FREE"
	TierPremium Tier = "PREMIUM"
)

// ParseTier normalizes a tier string; anything unrecognized is FREE.
func ParseTier(s string) Tier {
	if Tier(s) == TierPremium || s == "premium" {
		return TierPremium
	}
	return TierFree
}

// Limits holds the immutable ceilings for one tier. Premium ceilings are
// the maximum representable integer rather than a sentinel, so remaining
// arithmetic stays well-defined.
type Limits struct {
	OCRPerDay        int
	FlashcardsPerDay int
	SwipeStreak      int
}

// Ceiling returns the ceiling for the given counter kind. Swipe kinds
// are never capped; they only feed the streak signal.
func (l Limits) Ceiling(kind Kind) int {
	switch kind {
	case KindOCR:
		return l.OCRPerDay
	case KindFlashcard:
		return l.FlashcardsPerDay
	}
	return math.MaxInt
}

// DefaultLimits returns the built-in plan table. Free ceilings are
// deliberately generous enough for casual use; they deter abuse rather
// than meter every action.
func DefaultLimits() map[Tier]Limits {
	return map[Tier]Limits{
		TierFree: {
			OCRPerDay:        10,
			FlashcardsPerDay: 15,
			SwipeStreak:      DefaultStreakThreshold,
		},
		TierPremium: {
			OCRPerDay:        math.MaxInt,
			FlashcardsPerDay: math.MaxInt,
			SwipeStreak:      DefaultStreakThreshold,
		},
	}
}

// TierSource supplies the user's current tier. The gate polls it on
// every question; it does not own subscription state.
type TierSource func() Tier

// Gate answers "may the user do this now" questions from counter state
// and the tier's ceilings.
type Gate struct {
	tracker *Tracker
	limits  map[Tier]Limits
	tier    TierSource
}

// NewGate builds a gate. A nil limits map uses DefaultLimits; a nil tier
// source pins the gate to FREE.
func NewGate(tracker *Tracker, limits map[Tier]Limits, tier TierSource) *Gate {
	if limits == nil {
		limits = DefaultLimits()
	}
	if tier == nil {
		tier = func() Tier { return TierFree }
	}
	return &Gate{tracker: tracker, limits: limits, tier: tier}
}

// limitsNow resolves the current tier's limits, falling back to FREE for
// tiers missing from the table.
func (g *Gate) limitsNow() Limits {
	if l, ok := g.limits[g.tier()]; ok {
		return l
	}
	return g.limits[TierFree]
}

// CanPerform reports whether one more action of the given kind fits
// under the current tier's ceiling.
func (g *Gate) CanPerform(kind Kind) bool {
	return g.tracker.Count(kind) < g.limitsNow().Ceiling(kind)
}

// Remaining returns how many actions of kind are left today.
func (g *Gate) Remaining(kind Kind) int {
	return g.tracker.Remaining(kind, g.limitsNow().Ceiling(kind))
}
