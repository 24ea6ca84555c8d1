package tracker

import (
	"fmt"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/aggregate"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Period is a history time window counted in whole days back from now.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "7days"
	PeriodMonth Period = "30days"
)

// StatsRanges are the day windows Stats accepts.
var StatsRanges = []int{7, 30, 90}

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	}

	return "", &transaction.ValidationError{Field: "period", Message: fmt.Sprintf("unknown period %q", s)}
}

func (p Period) predicate(now time.Time) aggregate.Predicate {
	switch p {
	case PeriodToday:
		return aggregate.Today(now)
	case PeriodWeek:
		return aggregate.LastNDays(now, 7)
	case PeriodMonth:
		return aggregate.LastNDays(now, 30)
	}

	return aggregate.All()
}

// Filter narrows the history. The zero value matches everything.
type Filter struct {
	Period   Period
	Category transaction.Category
}

// History is a filtered list of transactions, newest first, with its totals.
type History struct {
	Transactions []transaction.Transaction `json:"transactions"`
	Totals       aggregate.Totals          `json:"totals"`
	Balance      int64                     `json:"balance"`
}

// Transactions lists the ledger for display. Entries sharing a timestamp
// are ordered most recently added first.
func (s *Service) Transactions(f Filter) (History, error) {
	period, err := ParsePeriod(string(f.Period))
	if err != nil {
		return History{}, err
	}

	if f.Category != "" && !f.Category.Valid() {
		return History{}, &transaction.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", f.Category)}
	}

	txs, now := s.view()

	preds := []aggregate.Predicate{period.predicate(now)}
	if f.Category != "" {
		preds = append(preds, aggregate.InCategory(f.Category))
	}

	match := aggregate.And(preds...)

	out := make([]transaction.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		if match(txs[i]) {
			out = append(out, txs[i])
		}
	}

	slices.SortStableFunc(out, func(a, b transaction.Transaction) int {
		return b.OccurredAt.Compare(a.OccurredAt)
	})

	totals := aggregate.Sum(out)

	return History{Transactions: out, Totals: totals, Balance: totals.Balance()}, nil
}

// Stats summarises spending over the last Days days. MonthSaved, BiggestExpense
// and SavingRate are not limited to the range.
type Stats struct {
	Days              int                        `json:"days"`
	Totals            aggregate.Totals           `json:"totals"`
	ExpenseByCategory []aggregate.CategoryAmount `json:"expenseByCategory"`
	Daily             []aggregate.DailyPoint     `json:"daily"`
	MonthSaved        int64                      `json:"monthSaved"`
	BiggestExpense    int64                      `json:"biggestExpense"`
	SavingRate        float64                    `json:"savingRate"`
}

func (s *Service) Stats(days int) (Stats, error) {
	if !slices.Contains(StatsRanges, days) {
		return Stats{}, &transaction.ValidationError{Field: "range", Message: fmt.Sprintf("must be one of %v", StatsRanges)}
	}

	txs, now := s.view()
	inRange := aggregate.LastNDays(now, days)

	month := aggregate.Sum(txs, aggregate.CurrentMonth(now))

	return Stats{
		Days:              days,
		Totals:            aggregate.Sum(txs, inRange),
		ExpenseByCategory: aggregate.ByCategory(txs, transaction.KindExpense, inRange),
		Daily:             aggregate.DailyBalance(txs, now.Location(), inRange),
		MonthSaved:        month.Balance(),
		BiggestExpense:    aggregate.LargestExpense(txs),
		SavingRate:        aggregate.Sum(txs).SavingRate(),
	}, nil
}

// view returns the transactions and the current time in the profile's zone.
func (s *Service) view() ([]transaction.Transaction, time.Time) {
	s.mu.RLock()
	txs := s.ledger.List()
	loc := s.profile.Location()
	s.mu.RUnlock()

	return txs, s.clock().In(loc)
}
