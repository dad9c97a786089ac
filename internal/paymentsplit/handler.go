package paymentsplit

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/oculusrep/commission-api/internal/httpx"
	"gorm.io/gorm"
)

type Handler struct {
	Repo *Repository
	Sync *Synchronizer
}

func NewHandler(repo *Repository, sync *Synchronizer) *Handler {
	return &Handler{Repo: repo, Sync: sync}
}

type PaidRequest struct {
	Paid *bool      `json:"paid" validate:"required"`
	Date *time.Time `json:"paidDate"`
}

// ListByPayment handles GET /payments/{pid}/splits
func (h *Handler) ListByPayment(w http.ResponseWriter, r *http.Request) {
	pid, err := httpx.PathID(r, "pid")
	if err != nil {
		http.Error(w, "invalid payment id", http.StatusBadRequest)
		return
	}
	splits, err := h.Repo.WithDB(h.Repo.DB.WithContext(r.Context())).ListByPayment(pid)
	if err != nil {
		http.Error(w, "error listing payment splits", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, splits)
}

// MarkPaid handles PATCH /payment-splits/{id}/paid. It is the only writer of
// paid/paidDate besides the synchronizer, which never touches paid rows.
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid payment split id", http.StatusBadRequest)
		return
	}
	var req PaidRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	at := time.Now()
	if req.Date != nil {
		at = *req.Date
	}

	repo := h.Repo.WithDB(h.Repo.DB.WithContext(r.Context()))
	if err := repo.SetPaid(id, *req.Paid, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "payment split not found", http.StatusNotFound)
			return
		}
		http.Error(w, "error updating payment split", http.StatusInternalServerError)
		return
	}
	split, err := repo.FindByID(id)
	if err != nil {
		http.Error(w, "error loading payment split", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, split)
}

// SyncDeal handles POST /deals/{id}/sync
func (h *Handler) SyncDeal(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	report, err := h.Sync.Sync(r.Context(), dealID)
	if err != nil {
		WriteSyncError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// WriteSyncError maps Sync errors onto responses.
func WriteSyncError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDealNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNumberOfPaymentsRequired):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("[paymentsplit] sync error: %v", err)
		http.Error(w, "error syncing payment splits", http.StatusInternalServerError)
	}
}
