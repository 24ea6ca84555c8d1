package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

type stubSuggester struct {
	suggestion categorize.Suggestion
	ok         bool
	err        error
}

func (s stubSuggester) Suggest(context.Context, string) (categorize.Suggestion, bool, error) {
	return s.suggestion, s.ok, s.err
}

func TestSuggestCategory(t *testing.T) {
	type testCase struct {
		name    string
		stub    stubSuggester
		want    transaction.Category
		wantLog string
	}

	tests := []testCase{
		{
			name: "Found",
			stub: stubSuggester{suggestion: categorize.Suggestion{Category: transaction.CategoryFood}, ok: true},
			want: transaction.CategoryFood,
		},
		{
			name: "NotFound",
			stub: stubSuggester{},
		},
		{
			name:    "LookupFailsIsLogged",
			stub:    stubSuggester{err: errors.New("db locked")},
			wantLog: "failed to suggest category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer

			prev := slog.Default()
			slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
			t.Cleanup(func() { slog.SetDefault(prev) })

			got := suggestCategory(context.Background(), tt.stub, "lunch")
			assert.Equal(t, tt.want, got)

			if tt.wantLog == "" {
				assert.Empty(t, logs.String())
				return
			}

			assert.Contains(t, logs.String(), tt.wantLog)
			assert.Contains(t, logs.String(), "db locked")
		})
	}
}
