package tracker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/events"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

var now = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)

	return nil
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}

	return out
}

func newService(t *testing.T, opts ...tracker.Option) (*tracker.Service, *tracker.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := tracker.NewMockRepository(ctrl)

	return tracker.NewService(repo, append([]tracker.Option{tracker.WithClock(fixedClock)}, opts...)...), repo
}

func income(amount int64) transaction.CreateParams {
	return transaction.CreateParams{Kind: transaction.KindIncome, Amount: amount, OccurredAt: now.Add(-time.Hour)}
}

func expense(amount int64, c transaction.Category) transaction.CreateParams {
	return transaction.CreateParams{Kind: transaction.KindExpense, Amount: amount, Category: c, OccurredAt: now.Add(-time.Hour)}
}

func TestService_Load(t *testing.T) {
	upToDate := tracker.Initial(now)

	withIncome := tracker.Initial(now)
	withIncome.Revision = 1
	withIncome.Transactions = []transaction.Transaction{{
		ID:         "tx-1",
		Kind:       transaction.KindIncome,
		Amount:     600_000,
		Category:   transaction.CategoryOther,
		Note:       transaction.DefaultNote,
		OccurredAt: now.Add(-time.Hour),
	}}

	type testCase struct {
		name      string
		setupMock func(m *tracker.MockRepository)
		wantErr   bool
		verify    func(t *testing.T, svc *tracker.Service)
	}

	tests := []testCase{
		{
			name: "FirstRunSavesInitialState",
			setupMock: func(m *tracker.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, nil)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, st tracker.State) error {
						assert.Empty(t, st.Transactions)
						assert.Equal(t, profile.DefaultPetName, st.Profile.PetName)
						assert.Len(t, st.Achievements, 8)

						return nil
					})
			},
			verify: func(t *testing.T, svc *tracker.Service) {
				snap := svc.Snapshot()
				assert.Equal(t, progression.StageEgg, snap.Progression.Stage)
				assert.Equal(t, 70, snap.Progression.Health)
			},
		},
		{
			name: "UpToDateStateIsNotSaved",
			setupMock: func(m *tracker.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(&upToDate, nil)
			},
		},
		{
			name: "DerivesFromStoredLedger",
			setupMock: func(m *tracker.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(&withIncome, nil)
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, svc *tracker.Service) {
				snap := svc.Snapshot()
				assert.Equal(t, uint64(1), snap.Revision)
				assert.Equal(t, progression.StageBaby, snap.Progression.Stage)
				assert.True(t, snap.Set.IsUnlocked(achievement.FirstStep))
				assert.Equal(t, 1, svc.State().Progression.StreakDays)
			},
		},
		{
			name: "RepoError",
			setupMock: func(m *tracker.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
		{
			name: "CorruptLedger",
			setupMock: func(m *tracker.MockRepository) {
				bad := withIncome
				bad.Transactions = []transaction.Transaction{{ID: "x", Kind: transaction.KindIncome}}
				m.EXPECT().Load(gomock.Any()).Return(&bad, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			tt.setupMock(repo)

			_, err := svc.Load(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			if tt.verify != nil {
				tt.verify(t, svc)
			}
		})
	}
}

func TestService_AddTransaction(t *testing.T) {
	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *tracker.MockRepository)
		wantErr   func(t *testing.T, err error)
	}

	tests := []testCase{
		{
			name:   "Success",
			params: income(600_000),
			setupMock: func(m *tracker.MockRepository) {
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, st tracker.State) error {
						require.Len(t, st.Transactions, 1)
						assert.Equal(t, uint64(1), st.Revision)
						assert.Equal(t, progression.StageBaby, st.Progression.Stage)
						assert.True(t, st.Achievements.IsUnlocked(achievement.FirstStep))

						return nil
					})
			},
		},
		{
			name:   "NonPositiveAmount",
			params: income(0),
			wantErr: func(t *testing.T, err error) {
				assert.True(t, transaction.IsValidation(err))
			},
		},
		{
			name:   "SaveFails",
			params: income(600_000),
			setupMock: func(m *tracker.MockRepository) {
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "saving state")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			before := svc.Snapshot()

			tx, snap, err := svc.AddTransaction(context.Background(), tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				assert.Equal(t, before, svc.Snapshot())
				assert.Empty(t, svc.State().Transactions)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, tx.ID)
			assert.Equal(t, snap, svc.Snapshot())
			assert.Contains(t, snap.UnlockedThisUpdate, achievement.FirstStep)
			require.NotNil(t, snap.Progression.LastTransactionAt)
			assert.Equal(t, tt.params.OccurredAt, *snap.Progression.LastTransactionAt)
		})
	}
}

func TestService_AddTransaction_DefaultsToNow(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	tx, _, err := svc.AddTransaction(context.Background(), transaction.CreateParams{Kind: transaction.KindExpense, Amount: 5000})
	require.NoError(t, err)

	assert.Equal(t, now, tx.OccurredAt)
	assert.Equal(t, transaction.CategoryOther, tx.Category)
	assert.Equal(t, transaction.DefaultNote, tx.Note)
}

func TestService_RemoveTransaction(t *testing.T) {
	rec := &recorder{}
	svc, repo := newService(t, tracker.WithPublisher(rec))
	ctx := context.Background()

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	tx, added, err := svc.AddTransaction(ctx, income(600_000))
	require.NoError(t, err)

	_, err = svc.RemoveTransaction(ctx, "missing")
	require.ErrorIs(t, err, transaction.ErrNotFound)
	assert.Equal(t, added, svc.Snapshot())

	snap, err := svc.RemoveTransaction(ctx, tx.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), snap.Balance)
	assert.Equal(t, progression.StageEgg, snap.Progression.Stage)
	assert.Equal(t, 70, snap.Progression.Health)
	assert.Empty(t, snap.UnlockedThisUpdate)
	assert.Equal(t, uint64(2), snap.Revision)

	for _, id := range added.UnlockedThisUpdate {
		assert.True(t, snap.Set.IsUnlocked(id), "achievement %s was re-locked", id)
	}

	require.NotNil(t, snap.Progression.LastTransactionAt)
	assert.Equal(t, tx.OccurredAt, *snap.Progression.LastTransactionAt)

	types := rec.types()
	assert.Equal(t, events.TransactionAdded, types[0])
	assert.Contains(t, types, events.AchievementUnlocked)
	assert.Equal(t, events.TransactionRemoved, types[len(types)-1])
}

func TestService_ImportTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("AllOrNothing", func(t *testing.T) {
		svc, _ := newService(t)

		_, _, err := svc.ImportTransactions(ctx, []transaction.CreateParams{
			income(1_000_000),
			expense(-5, transaction.CategoryFood),
		})
		require.Error(t, err)
		assert.True(t, transaction.IsValidation(err))
		assert.ErrorContains(t, err, "entry 2")
		assert.Empty(t, svc.State().Transactions)
	})

	t.Run("Success", func(t *testing.T) {
		svc, repo := newService(t)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		later := income(5)
		later.OccurredAt = now.Add(-time.Minute)

		txs, snap, err := svc.ImportTransactions(ctx, []transaction.CreateParams{
			later,
			income(1_000_000),
			expense(600_000, transaction.CategoryBills),
		})
		require.NoError(t, err)
		assert.Len(t, txs, 3)
		assert.Equal(t, uint64(3), snap.Revision)
		assert.Contains(t, snap.UnlockedThisUpdate, achievement.SpendingControl)
		require.NotNil(t, snap.Progression.LastTransactionAt)
		assert.Equal(t, later.OccurredAt, *snap.Progression.LastTransactionAt)
	})

	t.Run("Empty", func(t *testing.T) {
		svc, _ := newService(t)

		txs, _, err := svc.ImportTransactions(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	_, err := svc.UpdateProfile(ctx, profile.Profile{Currency: "IDR", MonthlyBudget: -1})
	require.Error(t, err)
	assert.True(t, transaction.IsValidation(err))

	_, err = svc.UpdateProfile(ctx, profile.Profile{PetName: "Mochi", Currency: "ZZZ"})
	require.Error(t, err)
	assert.True(t, transaction.IsValidation(err))
	assert.Equal(t, profile.DefaultCurrency, svc.Profile().Currency)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	created := svc.Profile().CreatedAt

	_, err = svc.UpdateProfile(ctx, profile.Profile{
		DisplayName:   "Rina",
		PetName:       "Mochi",
		Currency:      "IDR",
		MonthlyBudget: 1_500_000,
		TimeZone:      "UTC",
		CreatedAt:     now.Add(time.Hour),
	})
	require.NoError(t, err)

	p := svc.Profile()
	assert.Equal(t, "Mochi", p.PetName)
	assert.Equal(t, created, p.CreatedAt)
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	_, _, err := svc.AddTransaction(ctx, income(2_500_000))
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, profile.Profile{PetName: "Mochi", Currency: "IDR"})
	require.NoError(t, err)

	snap, err := svc.Reset(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), snap.Revision)
	assert.Equal(t, 0, snap.TransactionCount)
	assert.Equal(t, progression.StageEgg, snap.Progression.Stage)
	assert.Nil(t, snap.Progression.LastTransactionAt)
	assert.Empty(t, snap.UnlockedThisUpdate)

	for _, a := range snap.Set {
		assert.False(t, a.Unlocked, a.ID)
	}

	assert.Equal(t, profile.DefaultPetName, svc.Profile().PetName)
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	clock := now

	ctrl := gomock.NewController(t)
	repo := tracker.NewMockRepository(ctrl)
	svc := tracker.NewService(repo, tracker.WithClock(func() time.Time { return clock }))

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	_, snap, err := svc.AddTransaction(ctx, expense(10_000, transaction.CategoryFood))
	require.NoError(t, err)
	require.Equal(t, 1, snap.Progression.StreakDays)

	// Nothing derived changes within the same day.
	clock = now.Add(time.Minute)
	snap, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Progression.StreakDays)

	// Two days later the streak is broken and the change is saved.
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	clock = now.AddDate(0, 0, 2)
	snap, err = svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Progression.StreakDays)
	assert.True(t, snap.Set.IsUnlocked(achievement.FirstStep))
}

func TestService_ConcurrentMutations(t *testing.T) {
	svc, repo := newService(t)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(20)

	var wg sync.WaitGroup

	for range 20 {
		wg.Go(func() {
			_, _, err := svc.AddTransaction(context.Background(), income(1000))
			assert.NoError(t, err)

			snap := svc.Snapshot()
			assert.Equal(t, snap.Totals.Income, int64(snap.TransactionCount)*1000)
		})
	}

	wg.Wait()

	snap := svc.Snapshot()
	assert.Equal(t, uint64(20), snap.Revision)
	assert.Equal(t, int64(20_000), snap.Balance)
}

func TestService_Restore(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	svc, repo := newService(t, tracker.WithPublisher(rec))

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, _, err := svc.AddTransaction(ctx, expense(10_000, transaction.CategoryFood))
	require.NoError(t, err)

	unlockedAt := now.Add(-72 * time.Hour)

	backup := tracker.Initial(now.Add(-90 * 24 * time.Hour))
	backup.Profile.PetName = "Mochi"
	backup.Transactions = []transaction.Transaction{{
		ID:         "b-1",
		Kind:       transaction.KindIncome,
		Amount:     600_000,
		Category:   transaction.CategoryOther,
		Note:       "Allowance",
		OccurredAt: now.Add(-72 * time.Hour),
	}}
	backup.Achievements = achievement.Unlock(achievement.Initial(), []achievement.ID{achievement.FirstStep}, unlockedAt)

	snap, err := svc.Restore(ctx, backup)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), snap.Revision)
	assert.Equal(t, 1, snap.TransactionCount)
	assert.Equal(t, int64(600_000), snap.Balance)
	assert.Equal(t, "Mochi", svc.Profile().PetName)
	assert.NotContains(t, snap.UnlockedThisUpdate, achievement.FirstStep)
	assert.Contains(t, rec.types(), events.StateRestored)

	t.Run("DuplicateIDsRejected", func(t *testing.T) {
		bad := backup
		bad.Transactions = append(bad.Transactions, bad.Transactions[0])

		_, err := svc.Restore(ctx, bad)
		require.Error(t, err)
		assert.True(t, transaction.IsValidation(err))
		assert.Equal(t, 1, svc.Snapshot().TransactionCount)
	})

	t.Run("UnknownCurrencyRejected", func(t *testing.T) {
		bad := backup
		bad.Profile.Currency = "ZZZ"

		_, err := svc.Restore(ctx, bad)
		require.Error(t, err)
		assert.True(t, transaction.IsValidation(err))
		assert.Equal(t, "Mochi", svc.Profile().PetName)
	})
}
