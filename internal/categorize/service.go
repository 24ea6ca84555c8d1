// Package categorize suggests a category for a transaction note from
// previously categorized notes.
package categorize

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Rule maps a lower-cased note pattern to a category.
type Rule struct {
	Pattern  string
	Category transaction.Category
	Hits     int
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorize
type Repository interface {
	ListRules(ctx context.Context) ([]Rule, error)
	SaveRule(ctx context.Context, pattern string, category transaction.Category) error
}

// Match source.
const (
	SourceRule    = "rule"
	SourceFuzzy   = "fuzzy"
	SourceBuiltin = "builtin"
)

// Suggestion is the best category found for a note.
type Suggestion struct {
	Category transaction.Category `json:"category"`
	Pattern  string               `json:"pattern"`
	Source   string               `json:"source"`
}

var builtin = []Rule{
	{Pattern: "lunch", Category: transaction.CategoryFood},
	{Pattern: "dinner", Category: transaction.CategoryFood},
	{Pattern: "breakfast", Category: transaction.CategoryFood},
	{Pattern: "coffee", Category: transaction.CategoryFood},
	{Pattern: "snack", Category: transaction.CategoryFood},
	{Pattern: "bus", Category: transaction.CategoryTransportation},
	{Pattern: "grab", Category: transaction.CategoryTransportation},
	{Pattern: "fuel", Category: transaction.CategoryTransportation},
	{Pattern: "parking", Category: transaction.CategoryTransportation},
	{Pattern: "clothes", Category: transaction.CategoryShopping},
	{Pattern: "shoes", Category: transaction.CategoryShopping},
	{Pattern: "movie", Category: transaction.CategoryEntertainment},
	{Pattern: "concert", Category: transaction.CategoryEntertainment},
	{Pattern: "gaming", Category: transaction.CategoryEntertainment},
	{Pattern: "book", Category: transaction.CategoryEducation},
	{Pattern: "course", Category: transaction.CategoryEducation},
	{Pattern: "stationery", Category: transaction.CategoryEducation},
	{Pattern: "medicine", Category: transaction.CategoryHealth},
	{Pattern: "vitamin", Category: transaction.CategoryHealth},
	{Pattern: "doctor", Category: transaction.CategoryHealth},
	{Pattern: "gym", Category: transaction.CategoryHealth},
	{Pattern: "phone bill", Category: transaction.CategoryBills},
	{Pattern: "internet", Category: transaction.CategoryBills},
	{Pattern: "electricity", Category: transaction.CategoryBills},
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks for the longest learned pattern contained in note, then for a
// learned pattern within a small edit distance of note, then for a built-in
// keyword. ok is false when nothing matched.
func (s *Service) Suggest(ctx context.Context, note string) (Suggestion, bool, error) {
	key := normalize(note)
	if key == "" {
		return Suggestion{}, false, nil
	}

	rules, err := s.repo.ListRules(ctx)
	if err != nil {
		return Suggestion{}, false, err
	}

	if r, ok := longestContained(key, rules); ok {
		return Suggestion{Category: r.Category, Pattern: r.Pattern, Source: SourceRule}, true, nil
	}

	if r, ok := closest(key, rules); ok {
		return Suggestion{Category: r.Category, Pattern: r.Pattern, Source: SourceFuzzy}, true, nil
	}

	if r, ok := longestContained(key, builtin); ok {
		return Suggestion{Category: r.Category, Pattern: r.Pattern, Source: SourceBuiltin}, true, nil
	}

	return Suggestion{}, false, nil
}

// Learn remembers that note belongs to category.
func (s *Service) Learn(ctx context.Context, note string, category transaction.Category) error {
	key := normalize(note)
	if key == "" || key == strings.ToLower(transaction.DefaultNote) {
		return nil
	}

	if !category.Valid() {
		return &transaction.ValidationError{Field: "category", Message: "unknown category " + string(category)}
	}

	return s.repo.SaveRule(ctx, key, category)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func longestContained(key string, rules []Rule) (Rule, bool) {
	var (
		best  Rule
		found bool
	)

	for _, r := range rules {
		if r.Pattern == "" || !strings.Contains(key, r.Pattern) {
			continue
		}

		if !found || len(r.Pattern) > len(best.Pattern) || (len(r.Pattern) == len(best.Pattern) && r.Hits > best.Hits) {
			best, found = r, true
		}
	}

	return best, found
}

// closest accepts a distance of at most a quarter of the pattern length.
func closest(key string, rules []Rule) (Rule, bool) {
	var (
		best     Rule
		bestDist = -1
	)

	for _, r := range rules {
		limit := utf8.RuneCountInString(r.Pattern) / 4
		if limit == 0 {
			continue
		}

		d := levenshtein.ComputeDistance(key, r.Pattern)
		if d > limit {
			continue
		}

		if bestDist < 0 || d < bestDist || (d == bestDist && r.Hits > best.Hits) {
			best, bestDist = r, d
		}
	}

	return best, bestDist >= 0
}
