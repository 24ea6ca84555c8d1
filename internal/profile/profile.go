package profile

import (
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Profile holds the user's settings. It is replaced wholesale on update.
type Profile struct {
	DisplayName   string    `json:"displayName"`
	PetName       string    `json:"petName"`
	Currency      string    `json:"currency"`
	MonthlyBudget int64     `json:"monthlyBudget"`
	TimeZone      string    `json:"timeZone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

const (
	DefaultDisplayName   = "Student"
	DefaultPetName       = "Buddy"
	DefaultCurrency      = "IDR"
	DefaultMonthlyBudget = 2000000
)

// Default returns the first-run profile.
func Default(now time.Time) Profile {
	return Profile{
		DisplayName:   DefaultDisplayName,
		PetName:       DefaultPetName,
		Currency:      DefaultCurrency,
		MonthlyBudget: DefaultMonthlyBudget,
		CreatedAt:     now,
	}
}

// Validate rejects an unknown currency, a negative budget or an unknown time zone.
func (p Profile) Validate() error {
	if !currency.Valid(p.Currency) {
		return &transaction.ValidationError{Field: "currency", Message: fmt.Sprintf("unknown currency %q", p.Currency)}
	}

	if p.MonthlyBudget < 0 {
		return &transaction.ValidationError{Field: "monthly_budget", Message: "must not be negative"}
	}

	if p.TimeZone != "" {
		if _, err := time.LoadLocation(p.TimeZone); err != nil {
			return &transaction.ValidationError{Field: "time_zone", Message: fmt.Sprintf("unknown time zone %q", p.TimeZone)}
		}
	}

	return nil
}

// Location returns the profile's time zone, falling back to the process local zone.
func (p Profile) Location() *time.Location {
	if p.TimeZone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.Local
	}

	return loc
}
