package importcsv

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/categorize"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/http/respond"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/importer"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/snapshot"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/tracker"
	"github.com/MrJamesThe3rd/budgetbuddy/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	trackerSvc *tracker.Service
	categories *categorize.Service
}

func NewHandler(importSvc *importer.Service, trackerSvc *tracker.Service, categories *categorize.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		trackerSvc: trackerSvc,
		categories: categories,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
}

type importResponse struct {
	Imported     int                       `json:"imported"`
	Transactions []transaction.Transaction `json:"transactions"`
	Snapshot     snapshot.Snapshot         `json:"snapshot"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	p := h.trackerSvc.Profile()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), p.Currency, p.Location(), file)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.categorize(r, params)

	txs, snap, err := h.trackerSvc.ImportTransactions(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Imported:     len(txs),
		Transactions: txs,
		Snapshot:     snap,
	})
}

// categorize replaces the catch-all category with a suggestion where one exists.
func (h *Handler) categorize(r *http.Request, params []transaction.CreateParams) {
	if h.categories == nil {
		return
	}

	for i, p := range params {
		if p.Category != transaction.CategoryOther || p.Kind != transaction.KindExpense {
			continue
		}

		s, ok, err := h.categories.Suggest(r.Context(), p.Note)
		if err != nil {
			slog.Error("failed to suggest category", "error", err)
			return
		}

		if ok {
			params[i].Category = s.Category
		}
	}
}
