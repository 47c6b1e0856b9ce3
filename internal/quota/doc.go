// Package quota meters user actions with rolling-window counters backed
// by a durable key/value store, and answers subscription-tier gating
// questions against configurable ceilings. Storage failures fail open by
// default: metering favors availability over strict enforcement.
package quota
