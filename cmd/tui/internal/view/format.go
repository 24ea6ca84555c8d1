package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders a minor-unit amount in the profile currency.
func FormatAmount(amount int64, code string) string {
	return currency.Format(amount, code)
}

// FormatSigned renders amount with a colour for its sign.
func FormatSigned(amount int64, code string) string {
	s := currency.Signed(amount, code)

	switch {
	case amount > 0:
		return goodStyle.Render(s)
	case amount < 0:
		return badStyle.Render(s)
	}

	return s
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
