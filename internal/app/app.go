// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/budgetbuddy/internal/categorize/store"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/config"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/database"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/events"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/events/amqp"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/metrics"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/sample"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	trackerStore "github.com/MrJamesThe3rd/budgetbuddy/internal/tracker/store"
)

// App holds the services shared by the API, the TUI and the CLI.
type App struct {
	Config     *config.Config
	Tracker    *tracker.Service
	Categorize *categorize.Service
	Importer   *importer.Service

	db        *sql.DB
	publisher io.Closer
}

// SetupLogger installs a text handler at the configured level on w.
func SetupLogger(cfg *config.Config, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()})))
}

// New migrates and opens the database, builds the services and loads the
// saved state. reg may be nil to skip metrics.
func New(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, err
	}

	policy, err := cfg.StagePolicy()
	if err != nil {
		return nil, err
	}

	dsn := cfg.ConnectionString()

	if err := database.Migrate(driver, dsn); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	db, err := database.New(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a := &App{Config: cfg, db: db}

	opts := []tracker.Option{tracker.WithPolicy(policy)}

	if reg != nil {
		opts = append(opts, tracker.WithMetrics(metrics.New(reg)))
	}

	if cfg.AMQP.URL != "" {
		pub, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connecting to amqp: %w", err)
		}

		a.publisher = pub
		opts = append(opts, tracker.WithPublisher(pub))
	} else {
		opts = append(opts, tracker.WithPublisher(events.Nop{}))
	}

	a.Tracker = tracker.NewService(trackerStore.New(db, driver), opts...)
	a.Categorize = categorize.NewService(categorizeStore.New(db, driver))
	a.Importer = importer.NewService()

	snap, err := a.Tracker.Load(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Tracker.SeedSampleData && snap.TransactionCount == 0 && snap.Revision == 0 {
		if err := a.Seed(ctx, uint64(time.Now().UnixNano())); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

// Seed imports a month of generated transactions.
func (a *App) Seed(ctx context.Context, seed uint64) error {
	params := sample.New(seed).Generate(time.Now().In(a.Tracker.Profile().Location()))

	txs, _, err := a.Tracker.ImportTransactions(ctx, params)
	if err != nil {
		return fmt.Errorf("seeding sample data: %w", err)
	}

	slog.Info("seeded sample data", "transactions", len(txs))

	return nil
}

func (a *App) Close() error {
	var errs []error

	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}

	errs = append(errs, a.db.Close())

	return errors.Join(errs...)
}

// Must exits the process when err is not nil.
func Must(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		os.Exit(1)
	}
}
