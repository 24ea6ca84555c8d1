package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/app"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/config"
)

func TestNew_SeedsOnFirstRunOnly(t *testing.T) {
	ctx := context.Background()

	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "buddy.db"))
	t.Setenv("SEED_SAMPLE_DATA", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := app.New(ctx, cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	seeded := a.Tracker.Snapshot()
	assert.Positive(t, seeded.TransactionCount)
	assert.Equal(t, uint64(1), seeded.Revision)
	require.NoError(t, a.Close())

	a, err = app.New(ctx, cfg, nil)
	require.NoError(t, err)

	t.Cleanup(func() { a.Close() })

	reloaded := a.Tracker.Snapshot()
	assert.Equal(t, seeded.TransactionCount, reloaded.TransactionCount)
	assert.Equal(t, seeded.Balance, reloaded.Balance)
}

func TestNew_BadConfig(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Tracker.StagePolicy = "sometimes"

	_, err = app.New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
