// Package sample generates a plausible month of transactions for demos and
// first-run seeding.
package sample

import (
	"math/rand/v2"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

const (
	Days           = 30
	incomeChance   = 0.3
	minExpense     = 15_000
	expenseSpread  = 150_000
	firstHour      = 7
	activeHours    = 14
	maxPerDay      = 3
	incomeCategory = transaction.CategoryOther
)

var incomeAmounts = []int64{500_000, 1_500_000, 2_000_000, 750_000}

var incomeNotes = []string{"Monthly Allowance", "Part-time Job", "Gift Money", "Freelance Work"}

var expenseNotes = map[transaction.Category][]string{
	transaction.CategoryFood:           {"Lunch", "Dinner with friends", "Coffee", "Breakfast", "Snacks"},
	transaction.CategoryTransportation: {"Bus fare", "Grab", "Fuel", "Parking"},
	transaction.CategoryShopping:       {"Clothes", "Shoes", "Accessories", "Online shopping"},
	transaction.CategoryEntertainment:  {"Movie", "Gaming", "Concert", "Streaming subscription"},
	transaction.CategoryEducation:      {"Books", "Course", "Stationery", "Project materials"},
	transaction.CategoryHealth:         {"Vitamins", "Medicine", "Doctor visit", "Gym"},
	transaction.CategoryBills:          {"Phone bill", "Internet", "Electricity", "Subscription"},
	transaction.CategoryOther:          {"Gift", "Donation", "Miscellaneous"},
}

// Generator produces the same transactions for the same seed and day.
type Generator struct {
	seed uint64
}

func New(seed uint64) *Generator {
	return &Generator{seed: seed}
}

// Generate returns 1 to 3 transactions for each of the Days calendar days
// ending on now's day, oldest first. Times fall between 07:00 and 20:59 in
// now's location; entries later than now are clamped to now.
func (g *Generator) Generate(now time.Time) []transaction.CreateParams {
	r := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	categories := transaction.Categories()

	var out []transaction.CreateParams

	for daysAgo := Days - 1; daysAgo >= 0; daysAgo-- {
		day := now.AddDate(0, 0, -daysAgo)

		for range r.IntN(maxPerDay) + 1 {
			p := transaction.CreateParams{}

			if r.Float64() < incomeChance {
				p.Kind = transaction.KindIncome
				p.Amount = incomeAmounts[r.IntN(len(incomeAmounts))]
				p.Category = incomeCategory
				p.Note = incomeNotes[r.IntN(len(incomeNotes))]
			} else {
				p.Kind = transaction.KindExpense
				p.Amount = int64(r.IntN(expenseSpread)) + minExpense
				p.Category = categories[r.IntN(len(categories))]

				notes := expenseNotes[p.Category]
				p.Note = notes[r.IntN(len(notes))]
			}

			at := time.Date(day.Year(), day.Month(), day.Day(),
				firstHour+r.IntN(activeHours), r.IntN(60), 0, 0, now.Location())
			if at.After(now) {
				at = now
			}

			p.OccurredAt = at
			out = append(out, p)
		}
	}

	return out
}
