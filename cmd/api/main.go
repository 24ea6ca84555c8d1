package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/app"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/config"
	buddyHttp "github.com/MrJamesThe3rd/budgetbuddy/internal/http"
	categorizeHandler "github.com/MrJamesThe3rd/budgetbuddy/internal/http/categorize"
	exportHandler "github.com/MrJamesThe3rd/budgetbuddy/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/budgetbuddy/internal/http/importcsv"
	petHandler "github.com/MrJamesThe3rd/budgetbuddy/internal/http/pet"
	txHandler "github.com/MrJamesThe3rd/budgetbuddy/internal/http/transaction"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	app.Must(err, "failed to load config")

	app.SetupLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		reg     *prometheus.Registry
		metrics http.Handler
	)

	if cfg.Server.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}

	a, err := app.New(ctx, cfg, registerer)
	app.Must(err, "failed to start")

	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("failed to close", "error", err)
		}
	}()

	var (
		transactionH = txHandler.NewHandler(a.Tracker, a.Categorize)
		importH      = importHandler.NewHandler(a.Importer, a.Tracker, a.Categorize)
		exportH      = exportHandler.NewHandler(a.Tracker)
		petH         = petHandler.NewHandler(a.Tracker)
		categorizeH  = categorizeHandler.NewHandler(a.Categorize)
	)

	router := buddyHttp.New(buddyHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Timeout:     cfg.Server.Timeout,
		Metrics:     metrics,
	}, transactionH, importH, exportH, petH, categorizeH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
