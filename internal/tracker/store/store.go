package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/database"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/progression"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

// Store persists the tracker state in four tables. Save replaces their
// contents inside one database transaction.
type Store struct {
	db     *sql.DB
	driver database.Driver
}

func New(db *sql.DB, driver database.Driver) *Store {
	return &Store{db: db, driver: driver}
}

func (s *Store) q(query string) string { return database.Rebind(s.driver, query) }

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) Load(ctx context.Context) (*tracker.State, error) {
	var (
		st        tracker.State
		createdAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT revision, display_name, pet_name, currency, monthly_budget, time_zone, created_at
		FROM profile WHERE id = 1
	`).Scan(
		&st.Revision, &st.Profile.DisplayName, &st.Profile.PetName, &st.Profile.Currency,
		&st.Profile.MonthlyBudget, &st.Profile.TimeZone, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	if st.Profile.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}

	if st.Transactions, err = s.loadTransactions(ctx); err != nil {
		return nil, err
	}

	if st.Progression, err = s.loadProgression(ctx); err != nil {
		return nil, err
	}

	if st.Achievements, err = s.loadAchievements(ctx); err != nil {
		return nil, err
	}

	return &st, nil
}

func scanTransaction(sc scanner) (transaction.Transaction, error) {
	var (
		tx         transaction.Transaction
		kind       string
		category   string
		occurredAt string
	)

	if err := sc.Scan(&tx.ID, &kind, &tx.Amount, &category, &tx.Note, &occurredAt); err != nil {
		return transaction.Transaction{}, err
	}

	tx.Kind = transaction.Kind(kind)
	tx.Category = transaction.Category(category)

	at, err := database.ParseTime(occurredAt)
	if err != nil {
		return transaction.Transaction{}, err
	}

	tx.OccurredAt = at

	return tx, nil
}

func (s *Store) loadTransactions(ctx context.Context) ([]transaction.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, amount, category, note, occurred_at
		FROM transactions
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	txs := []transaction.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func (s *Store) loadProgression(ctx context.Context) (progression.State, error) {
	var (
		p     progression.State
		stage string
		last  sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT stage, level, health, total_savings, streak_days, last_transaction_at
		FROM progression WHERE id = 1
	`).Scan(&stage, &p.Level, &p.Health, &p.TotalSavings, &p.StreakDays, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return progression.Default(), nil
	}

	if err != nil {
		return progression.State{}, fmt.Errorf("querying progression: %w", err)
	}

	p.Stage = progression.Stage(stage)

	if p.LastTransactionAt, err = database.ParseNullTime(last); err != nil {
		return progression.State{}, err
	}

	return p, nil
}

func (s *Store) loadAchievements(ctx context.Context) (achievement.Set, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unlocked, unlocked_at
		FROM achievements
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying achievements: %w", err)
	}
	defer rows.Close()

	var set achievement.Set

	for rows.Next() {
		var (
			a  achievement.Achievement
			id string
			at sql.NullString
		)

		if err := rows.Scan(&id, &a.Unlocked, &at); err != nil {
			return nil, fmt.Errorf("scanning achievement: %w", err)
		}

		a.ID = achievement.ID(id)

		if a.UnlockedAt, err = database.ParseNullTime(at); err != nil {
			return nil, err
		}

		set = append(set, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return achievement.Normalize(set), nil
}

func (s *Store) Save(ctx context.Context, st tracker.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"profile", "transactions", "progression", "achievements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := s.saveProfile(ctx, tx, st.Revision, st.Profile); err != nil {
		return err
	}

	if err := s.saveTransactions(ctx, tx, st.Transactions); err != nil {
		return err
	}

	if err := s.saveProgression(ctx, tx, st.Progression); err != nil {
		return err
	}

	if err := s.saveAchievements(ctx, tx, st.Achievements); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	return nil
}

func (s *Store) saveProfile(ctx context.Context, tx *sql.Tx, revision uint64, p profile.Profile) error {
	_, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO profile (id, revision, display_name, pet_name, currency, monthly_budget, time_zone, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	`), int64(revision), p.DisplayName, p.PetName, p.Currency, p.MonthlyBudget, p.TimeZone, database.Time(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting profile: %w", err)
	}

	return nil
}

func (s *Store) saveTransactions(ctx context.Context, tx *sql.Tx, txs []transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, s.q(`
		INSERT INTO transactions (id, position, kind, amount, category, note, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("preparing transaction insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		_, err := stmt.ExecContext(ctx, t.ID, i, string(t.Kind), t.Amount, string(t.Category), t.Note, database.Time(t.OccurredAt))
		if err != nil {
			return fmt.Errorf("inserting transaction %s: %w", t.ID, err)
		}
	}

	return nil
}

func (s *Store) saveProgression(ctx context.Context, tx *sql.Tx, p progression.State) error {
	_, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO progression (id, stage, level, health, total_savings, streak_days, last_transaction_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`), string(p.Stage), p.Level, p.Health, p.TotalSavings, p.StreakDays, database.NullTime(p.LastTransactionAt))
	if err != nil {
		return fmt.Errorf("inserting progression: %w", err)
	}

	return nil
}

func (s *Store) saveAchievements(ctx context.Context, tx *sql.Tx, set achievement.Set) error {
	stmt, err := tx.PrepareContext(ctx, s.q(`
		INSERT INTO achievements (id, position, unlocked, unlocked_at)
		VALUES (?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("preparing achievement insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range achievement.Normalize(set) {
		if _, err := stmt.ExecContext(ctx, string(a.ID), i, a.Unlocked, database.NullTime(a.UnlockedAt)); err != nil {
			return fmt.Errorf("inserting achievement %s: %w", a.ID, err)
		}
	}

	return nil
}
