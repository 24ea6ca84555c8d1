package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/events"
)

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []amqp091.Publishing
	keys       []string
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp091.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}

	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)

	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}

	p, err := newPublisher(ch, "budgetbuddy")
	require.NoError(t, err)
	assert.Equal(t, []string{"budgetbuddy:topic"}, ch.declared)

	e := events.Event{
		Type:          events.TransactionAdded,
		Revision:      3,
		TransactionID: "tx-1",
		OccurredAt:    time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, ch.published, 1)
	assert.Equal(t, "transaction.added", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	got, err := events.FromJSON(ch.published[0].Body)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisher_Errors(t *testing.T) {
	_, err := newPublisher(&fakeChannel{declareErr: errors.New("access refused")}, "x")
	assert.ErrorContains(t, err, "declare exchange")

	p, err := newPublisher(&fakeChannel{publishErr: errors.New("channel closed")}, "x")
	require.NoError(t, err)

	err = p.Publish(context.Background(), events.Event{Type: events.StateReset})
	assert.ErrorContains(t, err, "publish state.reset")
}
