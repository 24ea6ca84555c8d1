package transaction

import (
	"time"
)

// Kind represents the direction of a transaction (income or expense).
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Category tags what a transaction was spent on or received for.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryShopping       Category = "shopping"
	CategoryEntertainment  Category = "entertainment"
	CategoryEducation      Category = "education"
	CategoryHealth         Category = "health"
	CategoryBills          Category = "bills"
	CategoryOther          Category = "other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryShopping,
	CategoryEntertainment,
	CategoryEducation,
	CategoryHealth,
	CategoryBills,
	CategoryOther,
}

// Categories returns every known category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}

	return false
}

// MaxAmount is the largest amount a single transaction may carry, in minor
// units. Ledger totals stay far inside int64 at this size.
const MaxAmount int64 = 1_000_000_000_000_000

// DefaultNote is stored when a transaction is created without a note.
const DefaultNote = "No description"

// Transaction is an immutable ledger entry. Amount is in minor currency units.
type Transaction struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Amount     int64     `json:"amount"`
	Category   Category  `json:"category"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Signed returns the amount with income positive and expense negative.
func (t Transaction) Signed() int64 {
	if t.Kind == KindExpense {
		return -t.Amount
	}

	return t.Amount
}

// CreateParams describes a transaction to append. ID is optional.
type CreateParams struct {
	ID         string
	Kind       Kind
	Amount     int64
	Category   Category
	Note       string
	OccurredAt time.Time
}
