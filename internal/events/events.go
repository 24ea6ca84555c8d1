// Package events describes what happened to the tracker state, for
// consumers outside the process.
package events

import (
	"context"
	"encoding/json"
	"time"
)

type Type string

const (
	TransactionAdded     Type = "transaction.added"
	TransactionRemoved   Type = "transaction.removed"
	TransactionsImported Type = "transactions.imported"
	AchievementUnlocked  Type = "achievement.unlocked"
	ProfileUpdated       Type = "profile.updated"
	StateReset           Type = "state.reset"
	StateRestored        Type = "state.restored"
)

// Event is published after a mutation has been persisted.
type Event struct {
	Type          Type      `json:"type"`
	Revision      uint64    `json:"revision"`
	TransactionID string    `json:"transactionId,omitempty"`
	Achievement   string    `json:"achievement,omitempty"`
	Count         int       `json:"count,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// RoutingKey is the event type.
func (e Event) RoutingKey() string { return string(e.Type) }

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}

	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
