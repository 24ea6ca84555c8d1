package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize/store"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/database"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func TestStore_SaveAndList(t *testing.T) {
	ctx := context.Background()

	dsn := database.SQLiteDSN(filepath.Join(t.TempDir(), "rules.db"))
	require.NoError(t, database.Migrate(database.DriverSQLite, dsn))

	db, err := database.New(database.DriverSQLite, dsn)
	require.NoError(t, err)

	defer db.Close()

	s := store.New(db, database.DriverSQLite)

	require.NoError(t, s.SaveRule(ctx, "kopi", transaction.CategoryFood))
	require.NoError(t, s.SaveRule(ctx, "warung kopi", transaction.CategoryFood))
	require.NoError(t, s.SaveRule(ctx, "kopi", transaction.CategoryEntertainment))

	rules, err := s.ListRules(ctx)
	require.NoError(t, err)

	assert.Equal(t, []categorize.Rule{
		{Pattern: "warung kopi", Category: transaction.CategoryFood, Hits: 1},
		{Pattern: "kopi", Category: transaction.CategoryEntertainment, Hits: 2},
	}, rules)

	got, ok, err := categorize.NewService(s).Suggest(ctx, "Kopi susu")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, transaction.CategoryEntertainment, got.Category)
}
