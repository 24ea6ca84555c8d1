package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/respond"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/snapshot"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

type Handler struct {
	svc        *tracker.Service
	categories *categorize.Service
}

// NewHandler returns the transactions handler. categories may be nil, in
// which case no category is suggested or learned.
func NewHandler(svc *tracker.Service, categories *categorize.Service) *Handler {
	return &Handler{svc: svc, categories: categories}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Kind       transaction.Kind     `json:"kind"`
	Amount     int64                `json:"amount"`
	Category   transaction.Category `json:"category"`
	Note       string               `json:"note"`
	OccurredAt *time.Time           `json:"occurredAt,omitempty"`
}

type mutationResponse struct {
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
	Snapshot    snapshot.Snapshot        `json:"snapshot"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := tracker.Filter{
		Period:   tracker.Period(r.URL.Query().Get("period")),
		Category: transaction.Category(r.URL.Query().Get("category")),
	}

	history, err := h.svc.Transactions(filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, history)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.CreateParams{
		Kind:     req.Kind,
		Amount:   req.Amount,
		Category: req.Category,
		Note:     req.Note,
	}

	if req.OccurredAt != nil {
		params.OccurredAt = *req.OccurredAt
	}

	if params.Category == "" {
		params.Category = h.suggest(r, params.Note)
	}

	tx, snap, err := h.svc.AddTransaction(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if req.Category != "" && h.categories != nil {
		if err := h.categories.Learn(r.Context(), tx.Note, tx.Category); err != nil {
			slog.Error("failed to learn category", "error", err, "note", tx.Note)
		}
	}

	respond.JSON(w, http.StatusCreated, mutationResponse{Transaction: &tx, Snapshot: snap})
}

// suggest returns the learned category for note, or "" to use the default.
func (h *Handler) suggest(r *http.Request, note string) transaction.Category {
	if h.categories == nil {
		return ""
	}

	s, ok, err := h.categories.Suggest(r.Context(), note)
	if err != nil {
		slog.Error("failed to suggest category", "error", err)
		return ""
	}

	if !ok {
		return ""
	}

	return s.Category
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.RemoveTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, mutationResponse{Snapshot: snap})
}
