package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/database"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

type Store struct {
	db     *sql.DB
	driver database.Driver
	now    func() time.Time
}

func New(db *sql.DB, driver database.Driver) *Store {
	return &Store{db: db, driver: driver, now: time.Now}
}

func (s *Store) ListRules(ctx context.Context) ([]categorize.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pattern, category, hits
		FROM category_rules
		ORDER BY LENGTH(pattern) DESC, updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []categorize.Rule

	for rows.Next() {
		var (
			r        categorize.Rule
			category string
		)

		if err := rows.Scan(&r.Pattern, &category, &r.Hits); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		r.Category = transaction.Category(category)
		rules = append(rules, r)
	}

	return rules, rows.Err()
}

// SaveRule inserts the pattern or, when it exists, moves it to category and
// counts one more hit.
func (s *Store) SaveRule(ctx context.Context, pattern string, category transaction.Category) error {
	query := database.Rebind(s.driver, `
		INSERT INTO category_rules (pattern, category, hits, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (pattern) DO UPDATE SET
			category = excluded.category,
			hits = category_rules.hits + 1,
			updated_at = excluded.updated_at
	`)

	if _, err := s.db.ExecContext(ctx, query, pattern, string(category), database.Time(s.now())); err != nil {
		return fmt.Errorf("saving rule: %w", err)
	}

	return nil
}
