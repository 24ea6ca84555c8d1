// Package pet exposes the derived snapshot, the profile and spending
// statistics.
package pet

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/achievement"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/respond"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/profile"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

const defaultStatsRange = 30

type Handler struct {
	svc *tracker.Service
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/snapshot", h.snapshot)
	r.Post("/refresh", h.refresh)
	r.Post("/reset", h.reset)
	r.Get("/achievements", h.achievements)
	r.Get("/stats", h.stats)
	r.Get("/profile", h.getProfile)
	r.Put("/profile", h.updateProfile)
}

func (h *Handler) snapshot(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Snapshot())
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, snap)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Reset(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, snap)
}

type achievementsResponse struct {
	Unlocked     int                  `json:"unlocked"`
	Total        int                  `json:"total"`
	Achievements []achievement.Status `json:"achievements"`
}

func (h *Handler) achievements(w http.ResponseWriter, _ *http.Request) {
	snap := h.svc.Snapshot()

	unlocked := 0
	for _, a := range snap.Achievements {
		if a.Unlocked {
			unlocked++
		}
	}

	respond.JSON(w, http.StatusOK, achievementsResponse{
		Unlocked:     unlocked,
		Total:        len(snap.Achievements),
		Achievements: snap.Achievements,
	})
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	days := defaultStatsRange

	if s := r.URL.Query().Get("range"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(w, &transaction.ValidationError{Field: "range", Message: "must be a number of days"})
			return
		}

		days = n
	}

	st, err := h.svc.Stats(days)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, st)
}

func (h *Handler) getProfile(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.Profile())
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.svc.UpdateProfile(r.Context(), p); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, h.svc.Profile())
}
