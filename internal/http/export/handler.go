package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/export"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/respond"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
)

type Handler struct {
	svc   *tracker.Service
	clock func() time.Time
}

func NewHandler(svc *tracker.Service) *Handler {
	return &Handler{svc: svc, clock: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.export)
	r.Post("/restore", h.restore)
}

// export writes the ledger as CSV or the whole state as JSON, selected by
// the format query parameter. The body is rendered before any header is
// sent so a failure still gets an error status.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	st := h.svc.State()

	var buf bytes.Buffer

	if format == export.FormatJSON {
		err = export.WriteJSON(&buf, st)
	} else {
		err = export.WriteCSV(&buf, st.Transactions, st.Profile.Currency)
	}

	if err != nil {
		respond.Error(w, fmt.Errorf("writing %s export: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(h.clock())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err, "format", format)
	}
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	st, err := export.ReadJSON(r.Body)
	if err != nil {
		respond.Error(w, err)
		return
	}

	snap, err := h.svc.Restore(r.Context(), st)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, snap)
}
