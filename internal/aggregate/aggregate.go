// Package aggregate computes financial totals over a ledger.
//
// Every function here is pure: inputs are never modified and order is not assumed.
package aggregate

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Totals are the income and expense sums of a set of transactions.
type Totals struct {
	Income  int64 `json:"totalIncome"`
	Expense int64 `json:"totalExpense"`
}

// Balance is income minus expense and may be negative.
func (t Totals) Balance() int64 { return t.Income - t.Expense }

// Savings is the balance floored at zero.
func (t Totals) Savings() int64 { return max(0, t.Balance()) }

// SpendingRate returns expense/income. ok is false when there is no income.
func (t Totals) SpendingRate() (rate float64, ok bool) {
	if t.Income <= 0 {
		return 0, false
	}

	return float64(t.Expense) / float64(t.Income), true
}

// SavingRate returns the saved share of income as a percentage, 0 without income.
func (t Totals) SavingRate() float64 {
	if t.Income <= 0 {
		return 0
	}

	return float64(t.Balance()) * 100 / float64(t.Income)
}

// Sum totals the transactions matching every predicate.
func Sum(txs []transaction.Transaction, preds ...Predicate) Totals {
	match := And(preds...)

	var t Totals

	for _, tx := range txs {
		if !match(tx) {
			continue
		}

		switch tx.Kind {
		case transaction.KindIncome:
			t.Income += tx.Amount
		case transaction.KindExpense:
			t.Expense += tx.Amount
		}
	}

	return t
}

// CategoryAmount is the summed amount of one category.
type CategoryAmount struct {
	Category transaction.Category `json:"category"`
	Amount   int64                `json:"amount"`
}

// ByCategory sums transactions of the given kind per category, largest first.
func ByCategory(txs []transaction.Transaction, kind transaction.Kind, preds ...Predicate) []CategoryAmount {
	match := And(append([]Predicate{OfKind(kind)}, preds...)...)
	sums := make(map[transaction.Category]int64)

	for _, tx := range txs {
		if match(tx) {
			sums[tx.Category] += tx.Amount
		}
	}

	out := make([]CategoryAmount, 0, len(sums))
	for c, amount := range sums {
		out = append(out, CategoryAmount{Category: c, Amount: amount})
	}

	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return out
}

// DailyPoint is the net movement of one calendar day and the running balance after it.
type DailyPoint struct {
	Day     time.Time `json:"day"`
	Net     int64     `json:"net"`
	Balance int64     `json:"balance"`
}

// DailyBalance groups matching transactions by calendar day in loc, oldest first.
// The running balance starts at zero at the first matching day.
func DailyBalance(txs []transaction.Transaction, loc *time.Location, preds ...Predicate) []DailyPoint {
	match := And(preds...)
	nets := make(map[time.Time]int64)

	for _, tx := range txs {
		if match(tx) {
			nets[StartOfDay(tx.OccurredAt, loc)] += tx.Signed()
		}
	}

	days := make([]time.Time, 0, len(nets))
	for d := range nets {
		days = append(days, d)
	}

	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	out := make([]DailyPoint, 0, len(days))

	var running int64

	for _, d := range days {
		running += nets[d]
		out = append(out, DailyPoint{Day: d, Net: nets[d], Balance: running})
	}

	return out
}

// LargestExpense returns the biggest single expense amount, 0 when there is none.
func LargestExpense(txs []transaction.Transaction, preds ...Predicate) int64 {
	match := And(append([]Predicate{OfKind(transaction.KindExpense)}, preds...)...)

	var largest int64

	for _, tx := range txs {
		if match(tx) && tx.Amount > largest {
			largest = tx.Amount
		}
	}

	return largest
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween is the whole number of 24h periods from t to now, floored.
// It is negative when t is after now.
func DaysBetween(t, now time.Time) int {
	return int(math.Floor(now.Sub(t).Hours() / 24))
}
