// Package tracker owns the mutable ledger and profile of one user and keeps
// the derived snapshot in step with every mutation.
package tracker

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// State is the persisted form of the tracker. Progression and Achievements
// hold the last computed values.
type State struct {
	Revision     uint64                    `json:"revision"`
	Profile      profile.Profile           `json:"profile"`
	Transactions []transaction.Transaction `json:"transactions"`
	Progression  progression.State         `json:"progression"`
	Achievements achievement.Set           `json:"achievements"`
}

// Initial is the first-run state.
func Initial(now time.Time) State {
	return State{
		Profile:      profile.Default(now),
		Transactions: []transaction.Transaction{},
		Progression:  progression.Default(),
		Achievements: achievement.Initial(),
	}
}

//go:generate mockgen -source=tracker.go -destination=repository_mock.go -package=tracker
type Repository interface {
	// Load returns nil and no error when nothing has been saved yet.
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state State) error
}
