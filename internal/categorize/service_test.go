package categorize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

var learned = []categorize.Rule{
	{Pattern: "warung", Category: transaction.CategoryFood, Hits: 3},
	{Pattern: "warung kopi", Category: transaction.CategoryEntertainment, Hits: 1},
	{Pattern: "spotify premium", Category: transaction.CategoryBills, Hits: 2},
}

func TestService_Suggest(t *testing.T) {
	type testCase struct {
		name      string
		note      string
		setupMock func(m *categorize.MockRepository)
		want      categorize.Suggestion
		wantOK    bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "LongestLearnedPatternWins",
			note: "Warung  Kopi Pak Budi",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().ListRules(gomock.Any()).Return(learned, nil)
			},
			want:   categorize.Suggestion{Category: transaction.CategoryEntertainment, Pattern: "warung kopi", Source: categorize.SourceRule},
			wantOK: true,
		},
		{
			name: "FuzzyMatch",
			note: "spotfy premum",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().ListRules(gomock.Any()).Return(learned, nil)
			},
			want:   categorize.Suggestion{Category: transaction.CategoryBills, Pattern: "spotify premium", Source: categorize.SourceFuzzy},
			wantOK: true,
		},
		{
			name: "BuiltinKeyword",
			note: "Dinner with friends",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().ListRules(gomock.Any()).Return(nil, nil)
			},
			want:   categorize.Suggestion{Category: transaction.CategoryFood, Pattern: "dinner", Source: categorize.SourceBuiltin},
			wantOK: true,
		},
		{
			name: "NoMatch",
			note: "something else",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().ListRules(gomock.Any()).Return(learned, nil)
			},
		},
		{
			name: "EmptyNoteSkipsRepo",
			note: "   ",
		},
		{
			name: "RepoError",
			note: "lunch",
			setupMock: func(m *categorize.MockRepository) {
				m.EXPECT().ListRules(gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := categorize.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, ok, err := categorize.NewService(repo).Suggest(context.Background(), tt.note)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := categorize.NewMockRepository(ctrl)
	svc := categorize.NewService(repo)
	ctx := context.Background()

	repo.EXPECT().SaveRule(gomock.Any(), "bakso malang", transaction.CategoryFood).Return(nil)

	assert.NoError(t, svc.Learn(ctx, "  Bakso   Malang ", transaction.CategoryFood))
	assert.NoError(t, svc.Learn(ctx, transaction.DefaultNote, transaction.CategoryFood))
	assert.NoError(t, svc.Learn(ctx, "", transaction.CategoryFood))

	err := svc.Learn(ctx, "bakso", "pets")
	assert.True(t, transaction.IsValidation(err))
}
