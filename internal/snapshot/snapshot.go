// Package snapshot composes aggregation, progression and achievement
// evaluation into the single view a client renders after a mutation.
package snapshot

import (
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/aggregate"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Input is everything Assemble depends on. A nil Ledger is an empty one.
type Input struct {
	Ledger       *transaction.Ledger
	Profile      profile.Profile
	Previous     progression.State
	Achievements achievement.Set
	Now          time.Time

	// StreakDays and LastTransactionAt override the previous values when set.
	StreakDays        *int
	LastTransactionAt *time.Time

	Policy progression.Policy
}

// Snapshot is the fully derived state after one recompute.
type Snapshot struct {
	Revision           uint64               `json:"revision"`
	Totals             aggregate.Totals     `json:"totals"`
	Balance            int64                `json:"balance"`
	MonthTotals        aggregate.Totals     `json:"monthTotals"`
	MonthSavings       int64                `json:"monthSavings"`
	TransactionCount   int                  `json:"transactionCount"`
	Progression        progression.State    `json:"progression"`
	Mood               progression.Mood     `json:"mood"`
	Achievements       []achievement.Status `json:"achievements"`
	Set                achievement.Set      `json:"-"`
	UnlockedThisUpdate []achievement.ID     `json:"unlockedThisUpdate"`
}

// Assemble recomputes the snapshot from scratch. It has no side effects, so
// calling it again with its own output as the previous state unlocks nothing.
func Assemble(in Input) Snapshot {
	var txs []transaction.Transaction

	var revision uint64

	if in.Ledger != nil {
		txs = in.Ledger.List()
		revision = in.Ledger.Revision()
	}

	now := in.Now.In(in.Profile.Location())

	totals := aggregate.Sum(txs)
	month := aggregate.Sum(txs, aggregate.CurrentMonth(now))

	state := progression.Derive(progression.Input{
		TotalSavings:      totals.Savings(),
		Balance:           totals.Balance(),
		Previous:          in.Previous,
		StreakDays:        in.StreakDays,
		LastTransactionAt: in.LastTransactionAt,
		Policy:            in.Policy,
	})

	metrics := achievement.Metrics{
		TransactionCount: len(txs),
		StreakDays:       state.StreakDays,
		MonthSavings:     month.Balance(),
		Totals:           totals,
		TotalSavings:     state.TotalSavings,
	}

	prior := achievement.Normalize(in.Achievements)
	unlocked := achievement.Evaluate(metrics, prior)
	set := achievement.Unlock(prior, unlocked, now)

	return Snapshot{
		Revision:           revision,
		Totals:             totals,
		Balance:            totals.Balance(),
		MonthTotals:        month,
		MonthSavings:       month.Balance(),
		TransactionCount:   len(txs),
		Progression:        state,
		Mood:               state.Mood(),
		Achievements:       achievement.Statuses(set, metrics),
		Set:                set,
		UnlockedThisUpdate: unlocked,
	}
}
