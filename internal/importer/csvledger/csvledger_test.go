package csvledger_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer/csvledger"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

func TestImporter_Parse(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    []transaction.CreateParams
		wantErr string
	}

	tests := []testCase{
		{
			name: "ExporterLayout",
			input: "occurred_at,kind,category,amount,note\n" +
				"2026-03-20T08:30:00Z,expense,food,12.50,Lunch\n" +
				"2026-03-19,income,,1500,Part-time Job\n",
			want: []transaction.CreateParams{
				{Kind: transaction.KindExpense, Amount: 1250, Category: transaction.CategoryFood, Note: "Lunch", OccurredAt: time.Date(2026, 3, 20, 8, 30, 0, 0, time.UTC)},
				{Kind: transaction.KindIncome, Amount: 150000, Category: transaction.CategoryOther, Note: "Part-time Job", OccurredAt: time.Date(2026, 3, 19, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name: "SemicolonsReorderedAndSigned",
			input: "Amount;Note;Occurred_At\n" +
				"-3.00;Bus fare;2026-03-18 07:15\n" +
				"\n" +
				"20;Gift Money;18/03/2026\n",
			want: []transaction.CreateParams{
				{Kind: transaction.KindExpense, Amount: 300, Category: transaction.CategoryOther, Note: "Bus fare", OccurredAt: time.Date(2026, 3, 18, 7, 15, 0, 0, time.UTC)},
				{Kind: transaction.KindIncome, Amount: 2000, Category: transaction.CategoryOther, Note: "Gift Money", OccurredAt: time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)},
			},
		},
		{
			name:    "MissingColumn",
			input:   "occurred_at,note\n2026-03-20,Lunch\n",
			wantErr: `missing column "amount"`,
		},
		{
			name:    "BadDate",
			input:   "occurred_at,kind,amount\nyesterday,expense,1\n",
			wantErr: "line 2",
		},
		{
			name:    "ZeroAmount",
			input:   "occurred_at,kind,amount\n2026-03-20,expense,0\n",
			wantErr: "invalid amount",
		},
		{
			name:    "NegativeWithKind",
			input:   "occurred_at,kind,amount\n2026-03-20,income,-50\n",
			wantErr: "line 2: invalid amount",
		},
		{
			name:    "Overflow",
			input:   "occurred_at,kind,amount\n2026-03-20,income,99999999999999999999\n",
			wantErr: "line 2",
		},
		{
			name:    "AboveMaxAmount",
			input:   "occurred_at,kind,amount\n2026-03-20,income,10000000000000.01\n",
			wantErr: "line 2: invalid amount",
		},
		{
			name:    "UnknownCategory",
			input:   "occurred_at,kind,category,amount\n2026-03-20,expense,pets,1\n",
			wantErr: "invalid category",
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: "csv is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := csvledger.New("USD", time.UTC).Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImporter_UnknownCurrency(t *testing.T) {
	_, err := csvledger.New("ZZZ", nil).Parse(strings.NewReader("occurred_at,kind,amount\n"))
	assert.Error(t, err)
}
