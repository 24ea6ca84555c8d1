package progression

import (
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/aggregate"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Streak counts consecutive calendar days, in now's location, that have at
// least one transaction. The run ends today, or yesterday while today has
// no transaction yet. Transactions after now are ignored.
func Streak(txs []transaction.Transaction, now time.Time) int {
	loc := now.Location()
	active := make(map[time.Time]struct{}, len(txs))

	for _, tx := range txs {
		if tx.OccurredAt.After(now) {
			continue
		}

		active[aggregate.StartOfDay(tx.OccurredAt, loc)] = struct{}{}
	}

	cursor := aggregate.StartOfDay(now, loc)
	if _, ok := active[cursor]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0

	for {
		if _, ok := active[cursor]; !ok {
			return streak
		}

		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}
