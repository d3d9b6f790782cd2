package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/atinyakov/WargaKeeper/internal/metrics"
	"github.com/atinyakov/WargaKeeper/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegistryService defines the resident registry operations
// required by the ResidentHandler.
type RegistryService interface {
	Create(ctx context.Context, r models.Resident) (int64, error)
	List(ctx context.Context) ([]models.Resident, error)
	GetByID(ctx context.Context, id int64) (models.Resident, error)
	Update(ctx context.Context, id int64, patch models.ResidentPatch) error
	Delete(ctx context.Context, id int64) error
}

// ResidentHandler handles HTTP requests for resident records.
type ResidentHandler struct {
	RegistryService RegistryService
	Metrics         *metrics.Metrics
	Log             *zap.Logger
}

// CreatedResponse is returned by a successful create.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// List handles GET /api/residents, newest record first.
func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	residents, err := h.RegistryService.List(r.Context())
	h.Metrics.ObserveResidentOp("list", start, err)
	if err != nil {
		writeError(w, h.Log, "list residents", err)
		return
	}
	writeJSON(w, http.StatusOK, residents)
}

// Create handles POST /api/residents. Any id in the body is ignored.
func (h *ResidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var resident models.Resident
	if err := decodeJSON(w, r, &resident, true); err != nil {
		writeDecodeError(w, err, "invalid body")
		return
	}
	resident.ID = 0

	start := time.Now()
	id, err := h.RegistryService.Create(r.Context(), resident)
	h.Metrics.ObserveResidentOp("create", start, err)
	if err != nil {
		writeError(w, h.Log, "create resident", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// Get handles GET /api/residents/{id}.
func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := residentID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	resident, err := h.RegistryService.GetByID(r.Context(), id)
	h.Metrics.ObserveResidentOp("get", start, err)
	if err != nil {
		writeError(w, h.Log, "get resident", err)
		return
	}
	writeJSON(w, http.StatusOK, resident)
}

// Update handles PATCH /api/residents/{id}. Only fields present in the
// body are changed.
func (h *ResidentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := residentID(w, r)
	if !ok {
		return
	}

	var patch models.ResidentPatch
	if err := decodeJSON(w, r, &patch, true); err != nil {
		writeDecodeError(w, err, "invalid body")
		return
	}

	start := time.Now()
	err := h.RegistryService.Update(r.Context(), id, patch)
	h.Metrics.ObserveResidentOp("update", start, err)
	if err != nil {
		writeError(w, h.Log, "update resident", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/residents/{id}.
func (h *ResidentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := residentID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	err := h.RegistryService.Delete(r.Context(), id)
	h.Metrics.ObserveResidentOp("delete", start, err)
	if err != nil {
		writeError(w, h.Log, "delete resident", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func residentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
