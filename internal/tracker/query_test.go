package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func seeded(t *testing.T) *tracker.Service {
	t.Helper()

	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	at := func(p transaction.CreateParams, ago time.Duration) transaction.CreateParams {
		p.OccurredAt = now.Add(-ago)
		return p
	}

	_, _, err := svc.ImportTransactions(context.Background(), []transaction.CreateParams{
		at(income(1_000_000), 40*24*time.Hour),
		at(expense(50_000, transaction.CategoryFood), 10*24*time.Hour),
		at(expense(20_000, transaction.CategoryTransportation), 3*24*time.Hour),
		at(expense(15_000, transaction.CategoryFood), time.Hour),
		at(income(200_000), time.Hour),
	})
	require.NoError(t, err)

	return svc
}

func TestService_Transactions(t *testing.T) {
	svc := seeded(t)

	type testCase struct {
		name        string
		filter      tracker.Filter
		wantAmounts []int64
		wantBalance int64
		wantErr     bool
	}

	tests := []testCase{
		{
			name:        "All",
			wantAmounts: []int64{200_000, 15_000, 20_000, 50_000, 1_000_000},
			wantBalance: 1_115_000,
		},
		{
			name:        "Today",
			filter:      tracker.Filter{Period: tracker.PeriodToday},
			wantAmounts: []int64{200_000, 15_000},
			wantBalance: 185_000,
		},
		{
			name:        "SevenDays",
			filter:      tracker.Filter{Period: tracker.PeriodWeek},
			wantAmounts: []int64{200_000, 15_000, 20_000},
			wantBalance: 165_000,
		},
		{
			name:        "ThirtyDaysFood",
			filter:      tracker.Filter{Period: tracker.PeriodMonth, Category: transaction.CategoryFood},
			wantAmounts: []int64{15_000, 50_000},
			wantBalance: -65_000,
		},
		{
			name:    "UnknownPeriod",
			filter:  tracker.Filter{Period: "yesterday"},
			wantErr: true,
		},
		{
			name:    "UnknownCategory",
			filter:  tracker.Filter{Category: "pets"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := svc.Transactions(tt.filter)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, transaction.IsValidation(err))

				return
			}

			require.NoError(t, err)

			amounts := make([]int64, len(h.Transactions))
			for i, tx := range h.Transactions {
				amounts[i] = tx.Amount
			}

			assert.Equal(t, tt.wantAmounts, amounts)
			assert.Equal(t, tt.wantBalance, h.Balance)
		})
	}
}

func TestService_Stats(t *testing.T) {
	svc := seeded(t)

	_, err := svc.Stats(14)
	require.Error(t, err)

	st, err := svc.Stats(30)
	require.NoError(t, err)

	assert.Equal(t, int64(200_000), st.Totals.Income)
	assert.Equal(t, int64(85_000), st.Totals.Expense)
	require.Len(t, st.ExpenseByCategory, 2)
	assert.Equal(t, transaction.CategoryFood, st.ExpenseByCategory[0].Category)
	assert.Equal(t, int64(65_000), st.ExpenseByCategory[0].Amount)
	require.Len(t, st.Daily, 3)
	assert.Equal(t, int64(115_000), st.Daily[len(st.Daily)-1].Balance)
	assert.Equal(t, int64(50_000), st.BiggestExpense)
	assert.InDelta(t, 1_115_000.0*100/1_200_000, st.SavingRate, 1e-9)
}
