package categorize

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/respond"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

type Handler struct {
	svc *categorize.Service
}

func NewHandler(svc *categorize.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Note  string `json:"note"`
	Found bool   `json:"found"`
	categorize.Suggestion
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	note := r.URL.Query().Get("note")
	if note == "" {
		http.Error(w, "note query parameter is required", http.StatusBadRequest)
		return
	}

	s, ok, err := h.svc.Suggest(r.Context(), note)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{Note: note, Found: ok, Suggestion: s})
}

type learnRequest struct {
	Note     string               `json:"note"`
	Category transaction.Category `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Note == "" || req.Category == "" {
		http.Error(w, "note and category are required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.Note, req.Category); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
