package image

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi"

	"hsaledger/internal/transport"
)

type ServiceAPI interface {
	Upload(ctx context.Context, expenseID string, contents io.Reader) (*Image, error)
	ListForExpense(ctx context.Context, expenseID string) ([]*Image, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service     ServiceAPI
	maxUploadMB int64
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI, maxUploadMB int64) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
		maxUploadMB: maxUploadMB,
	}
}

// Upload accepts multipart form fields `file` and `expenseId`.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		h.Logger.Warn("Upload: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.Logger.Warn("Upload: missing file part", "error", err)
		h.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	img, err := h.Service.Upload(r.Context(), r.FormValue("expenseId"), file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, img)
}

func (h *Handler) ListForExpense(w http.ResponseWriter, r *http.Request) {
	images, err := h.Service.ListForExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, images)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
