package progression_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func TestStageFor(t *testing.T) {
	tests := []struct {
		savings   int64
		wantStage progression.Stage
		wantLevel int
	}{
		{0, progression.StageEgg, 1},
		{499_999, progression.StageEgg, 1},
		{500_000, progression.StageBaby, 2},
		{600_000, progression.StageBaby, 2},
		{1_999_999, progression.StageBaby, 2},
		{2_000_000, progression.StageAdult, 3},
		{10_000_000, progression.StageAdult, 3},
	}

	for _, tt := range tests {
		stage, level := progression.StageFor(tt.savings)
		assert.Equal(t, tt.wantStage, stage, "savings %d", tt.savings)
		assert.Equal(t, tt.wantLevel, level, "savings %d", tt.savings)
	}
}

func TestToNextStage(t *testing.T) {
	left, next := progression.ToNextStage(-50_000)
	assert.Equal(t, int64(550_000), left)
	assert.Equal(t, progression.StageBaby, next)

	left, next = progression.ToNextStage(500_000)
	assert.Equal(t, int64(1_500_000), left)
	assert.Equal(t, progression.StageAdult, next)

	left, next = progression.ToNextStage(2_000_000)
	assert.Zero(t, left)
	assert.Empty(t, next)
}

func TestHealthFor(t *testing.T) {
	assert.Equal(t, 100, progression.HealthFor(1))
	assert.Equal(t, 70, progression.HealthFor(0))
	assert.Equal(t, 40, progression.HealthFor(-1))
}

func TestDerive(t *testing.T) {
	lastAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	newAt := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	adult := progression.State{
		Stage:             progression.StageAdult,
		Level:             3,
		Health:            100,
		TotalSavings:      2_500_000,
		StreakDays:        12,
		LastTransactionAt: &lastAt,
	}

	type testCase struct {
		name   string
		input  progression.Input
		verify func(t *testing.T, got progression.State)
	}

	tests := []testCase{
		{
			name:  "EmptyLedger",
			input: progression.Input{Previous: progression.Default()},
			verify: func(t *testing.T, got progression.State) {
				assert.Equal(t, progression.StageEgg, got.Stage)
				assert.Equal(t, 1, got.Level)
				assert.Equal(t, 70, got.Health)
				assert.Equal(t, progression.MoodNeutral, got.Mood())
				assert.Nil(t, got.LastTransactionAt)
			},
		},
		{
			name:  "InstantaneousRegression",
			input: progression.Input{TotalSavings: 0, Balance: -200_000, Previous: adult},
			verify: func(t *testing.T, got progression.State) {
				assert.Equal(t, progression.StageEgg, got.Stage)
				assert.Equal(t, 1, got.Level)
				assert.Equal(t, 40, got.Health)
				assert.Equal(t, progression.MoodSad, got.Mood())
			},
		},
		{
			name: "HighWaterMarkKeepsStage",
			input: progression.Input{
				TotalSavings: 0,
				Balance:      -200_000,
				Previous:     adult,
				Policy:       progression.PolicyHighWaterMark,
			},
			verify: func(t *testing.T, got progression.State) {
				assert.Equal(t, progression.StageAdult, got.Stage)
				assert.Equal(t, 3, got.Level)
				assert.Equal(t, int64(0), got.TotalSavings)
				assert.Equal(t, 40, got.Health)
			},
		},
		{
			name:  "CarriesStreakAndLastTransaction",
			input: progression.Input{TotalSavings: 600_000, Balance: 600_000, Previous: adult},
			verify: func(t *testing.T, got progression.State) {
				assert.Equal(t, progression.StageBaby, got.Stage)
				assert.Equal(t, 12, got.StreakDays)
				require.NotNil(t, got.LastTransactionAt)
				assert.Equal(t, lastAt, *got.LastTransactionAt)
			},
		},
		{
			name: "OverridesStreakAndLastTransaction",
			input: progression.Input{
				TotalSavings:      600_000,
				Balance:           600_000,
				Previous:          adult,
				StreakDays:        new(3),
				LastTransactionAt: &newAt,
			},
			verify: func(t *testing.T, got progression.State) {
				assert.Equal(t, 3, got.StreakDays)
				require.NotNil(t, got.LastTransactionAt)
				assert.Equal(t, newAt, *got.LastTransactionAt)
				assert.Equal(t, progression.MoodHappy, got.Mood())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, progression.Derive(tt.input))
		})
	}
}

func TestDefault_MatchesEmptyLedger(t *testing.T) {
	for _, policy := range []progression.Policy{progression.PolicyInstantaneous, progression.PolicyHighWaterMark} {
		got := progression.Derive(progression.Input{Previous: progression.Default(), Policy: policy})
		assert.Equal(t, progression.Default(), got, policy)
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := progression.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, progression.PolicyInstantaneous, p)

	p, err = progression.ParsePolicy("high_water_mark")
	require.NoError(t, err)
	assert.Equal(t, progression.PolicyHighWaterMark, p)

	_, err = progression.ParsePolicy("sticky")
	assert.Error(t, err)
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

	at := func(daysAgo, hour int) transaction.Transaction {
		d := time.Date(2026, 3, 20-daysAgo, hour, 0, 0, 0, time.UTC)
		return transaction.Transaction{Kind: transaction.KindExpense, Amount: 1, OccurredAt: d}
	}

	tests := []struct {
		name string
		txs  []transaction.Transaction
		want int
	}{
		{name: "Empty", want: 0},
		{name: "TodayOnly", txs: []transaction.Transaction{at(0, 9)}, want: 1},
		{name: "YesterdayCountsUntilTodayEnds", txs: []transaction.Transaction{at(1, 9), at(2, 9)}, want: 2},
		{name: "GapBreaksRun", txs: []transaction.Transaction{at(0, 9), at(1, 9), at(3, 9)}, want: 2},
		{name: "TwoDaysAgoOnly", txs: []transaction.Transaction{at(2, 9)}, want: 0},
		{name: "SeveralPerDay", txs: []transaction.Transaction{at(0, 8), at(0, 9), at(1, 23), at(2, 0)}, want: 3},
		{name: "FutureIgnored", txs: []transaction.Transaction{at(0, 20)}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progression.Streak(tt.txs, now))
		})
	}
}
