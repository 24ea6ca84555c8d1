package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/export"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/importcsv"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/pet"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/transaction"
)

// Options configures the cross-cutting middleware. A nil Metrics handler
// disables the /metrics endpoint.
type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
	Metrics     http.Handler
}

func New(
	opts Options,
	transactionsV1 *transaction.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
	petV1 *pet.Handler,
	categorizeV1 *categorize.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)

		r.Route("/export", exportV1.Routes)

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			categorizeV1.Routes(r)
		})

		r.Route("/pet", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			petV1.Routes(r)
		})
	})

	return router
}
