// Package achievement evaluates which badges a ledger has earned.
//
// Unlocking is monotonic. Evaluate only reports locked achievements whose
// condition now holds and Unlock never clears a flag, so a badge survives any
// later regression of the metric it was earned on.
package achievement

import (
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/aggregate"
)

// Achievement is the unlock state of one catalog entry.
type Achievement struct {
	ID         ID         `json:"id"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// Set holds exactly one entry per catalog id, in catalog order.
type Set []Achievement

// Initial returns the all-locked set.
func Initial() Set {
	s := make(Set, len(catalog))
	for i, d := range catalog {
		s[i] = Achievement{ID: d.ID}
	}

	return s
}

// Normalize reorders s into catalog order, adds missing ids as locked and
// drops unknown ids. Duplicates merge, keeping the earliest unlock.
func Normalize(s Set) Set {
	byID := make(map[ID]Achievement, len(s))

	for _, a := range s {
		if _, known := Lookup(a.ID); !known {
			continue
		}

		prev, seen := byID[a.ID]
		if !seen || (a.Unlocked && (!prev.Unlocked || earlier(a.UnlockedAt, prev.UnlockedAt))) {
			byID[a.ID] = a
		}
	}

	out := Initial()
	for i := range out {
		a, ok := byID[out[i].ID]
		if !ok || !a.Unlocked {
			continue
		}

		out[i].Unlocked = true
		if a.UnlockedAt != nil {
			at := *a.UnlockedAt
			out[i].UnlockedAt = &at
		}
	}

	return out
}

func earlier(a, b *time.Time) bool {
	if a == nil {
		return false
	}

	return b == nil || a.Before(*b)
}

// IsUnlocked reports whether id is unlocked in s.
func (s Set) IsUnlocked(id ID) bool {
	for _, a := range s {
		if a.ID == id {
			return a.Unlocked
		}
	}

	return false
}

// Metrics are the ledger-derived values the rules look at.
type Metrics struct {
	TransactionCount int
	StreakDays       int
	MonthSavings     int64
	Totals           aggregate.Totals
	TotalSavings     int64
}

// Evaluate returns, in catalog order, the ids that are locked in prior and
// whose condition holds for m.
func Evaluate(m Metrics, prior Set) []ID {
	var unlocked []ID

	for _, d := range catalog {
		if prior.IsUnlocked(d.ID) {
			continue
		}

		if rules[d.ID].met(m) {
			unlocked = append(unlocked, d.ID)
		}
	}

	return unlocked
}

// Unlock returns a normalized copy of prior with ids unlocked at the given time.
// Ids already unlocked keep their original timestamp.
func Unlock(prior Set, ids []ID, at time.Time) Set {
	next := Normalize(prior)

	for _, id := range ids {
		for i := range next {
			if next[i].ID != id || next[i].Unlocked {
				continue
			}

			t := at
			next[i].Unlocked = true
			next[i].UnlockedAt = &t
		}
	}

	return next
}

// Progress is the completion percentage of id in [0, 100].
// Unlocked achievements always report 100.
func Progress(id ID, m Metrics, s Set) float64 {
	if s.IsUnlocked(id) {
		return 100
	}

	r, ok := rules[id]
	if !ok {
		return 0
	}

	return r.progress(m)
}

// Status combines an achievement's definition, unlock state and progress.
type Status struct {
	Definition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
	Progress   float64    `json:"progress"`
}

// Statuses describes every achievement of s in catalog order.
func Statuses(s Set, m Metrics) []Status {
	s = Normalize(s)
	out := make([]Status, len(s))

	for i, a := range s {
		def, _ := Lookup(a.ID)
		out[i] = Status{
			Definition: def,
			Unlocked:   a.Unlocked,
			UnlockedAt: a.UnlockedAt,
			Progress:   Progress(a.ID, m, s),
		}
	}

	return out
}
