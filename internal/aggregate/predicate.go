package aggregate

import (
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Predicate selects transactions for aggregation.
type Predicate func(tx transaction.Transaction) bool

// All matches every transaction.
func All() Predicate {
	return func(transaction.Transaction) bool { return true }
}

// And matches when every non-nil predicate matches. No predicates means all.
func And(preds ...Predicate) Predicate {
	return func(tx transaction.Transaction) bool {
		for _, p := range preds {
			if p != nil && !p(tx) {
				return false
			}
		}

		return true
	}
}

// OfKind matches a transaction kind.
func OfKind(k transaction.Kind) Predicate {
	return func(tx transaction.Transaction) bool { return tx.Kind == k }
}

// InCategory matches a category.
func InCategory(c transaction.Category) Predicate {
	return func(tx transaction.Transaction) bool { return tx.Category == c }
}

// Since matches transactions at or after start.
func Since(start time.Time) Predicate {
	return func(tx transaction.Transaction) bool { return !tx.OccurredAt.Before(start) }
}

// Between matches transactions in [start, end].
func Between(start, end time.Time) Predicate {
	return func(tx transaction.Transaction) bool {
		return !tx.OccurredAt.Before(start) && !tx.OccurredAt.After(end)
	}
}

// CurrentMonth matches from the 1st of now's month, in now's location, up to now.
func CurrentMonth(now time.Time) Predicate {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Between(start, now)
}

// LastNDays matches transactions whose whole-day distance from now is at most n.
func LastNDays(now time.Time, n int) Predicate {
	return func(tx transaction.Transaction) bool { return DaysBetween(tx.OccurredAt, now) <= n }
}

// Today matches transactions less than one whole day before now.
func Today(now time.Time) Predicate {
	return func(tx transaction.Transaction) bool { return DaysBetween(tx.OccurredAt, now) == 0 }
}
