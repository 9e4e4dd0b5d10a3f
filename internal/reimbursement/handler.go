package reimbursement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"hsaledger/internal/transport"
)

type ServiceAPI interface {
	Add(ctx context.Context, dto AddReimbursementDTO) (*Reimbursement, error)
	Delete(ctx context.Context, id string) error
	ListForExpense(ctx context.Context, expenseID string) ([]*Reimbursement, error)
	Summary(ctx context.Context, r DateRange) (SummaryResponse, error)
	ExportRows(ctx context.Context, r DateRange) ([]ExpenseSummary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

func (h *Handler) AddReimbursement(w http.ResponseWriter, r *http.Request) {
	var dto AddReimbursementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("AddReimbursement: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rb, err := h.Service.Add(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rb)
}

func (h *Handler) ListForExpense(w http.ResponseWriter, r *http.Request) {
	rbs, err := h.Service.ListForExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rbs)
}

func (h *Handler) DeleteReimbursement(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) OverallSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := ParseRange(q.Get("from"), q.Get("to"), q.Get("year"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	summary, err := h.Service.Summary(r.Context(), rng)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := ParseRange(q.Get("from"), q.Get("to"), q.Get("year"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	rows, err := h.Service.ExportRows(r.Context(), rng)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(rng)))

	if err := WriteCSV(w, rows); err != nil {
		h.Logger.Error("ExportCSV: failed to stream export", "error", err)
	}
}
