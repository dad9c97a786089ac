package deal

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/oculusrep/commission-api/internal/payment"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"gorm.io/gorm"
)

// ErrScheduleLocked is returned when fee or installment count changes after
// payments were generated.
var ErrScheduleLocked = errors.New("fee and number of payments cannot change once payments exist")

// Scheduler creates a deal's payments when they are missing.
type Scheduler interface {
	EnsureSchedule(ctx context.Context, dealID uint, firstEstimate *time.Time) (*payment.ScheduleResult, error)
}

// Syncer re-projects a deal's templates onto its payment splits.
type Syncer interface {
	Sync(ctx context.Context, dealID uint) (*paymentsplit.SyncReport, error)
}

type Handler struct {
	Repo      *Repository
	Defaults  Defaults
	Scheduler Scheduler
	Sync      Syncer
}

func NewHandler(repo *Repository, defaults Defaults, scheduler Scheduler, sync Syncer) *Handler {
	return &Handler{Repo: repo, Defaults: defaults, Scheduler: scheduler, Sync: sync}
}

// DealResponse returns the deal with whatever follow-up work the write triggered.
type DealResponse struct {
	Deal     *models.Deal             `json:"deal"`
	Schedule *payment.ScheduleResult  `json:"schedule,omitempty"`
	Sync     *paymentsplit.SyncReport `json:"sync,omitempty"`
	Warning  string                   `json:"warning,omitempty"`
}

func (h *Handler) repo(r *http.Request) *Repository {
	return h.Repo.WithDB(h.Repo.DB.WithContext(r.Context()))
}

// List handles GET /deals[?stage=]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	if stage != "" && !models.ValidStage(stage) {
		http.Error(w, "unknown stage", http.StatusBadRequest)
		return
	}
	list, err := h.repo(r).List(stage)
	if err != nil {
		http.Error(w, "error listing deals", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Get handles GET /deals/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	d, err := h.repo(r).FindDetailed(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading deal", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Create handles POST /deals. Unset percentages take the configured defaults.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req DealRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	d := models.Deal{Stage: models.StageNegotiatingLOI}
	req.apply(&d)
	h.Defaults.Apply(&d)
	if err := validateDeal(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.repo(r).Create(&d); err != nil {
		http.Error(w, "error creating deal", http.StatusInternalServerError)
		return
	}
	resp := DealResponse{Deal: &d}
	h.followUp(r.Context(), &d, 0, false, &resp)
	httpx.JSON(w, http.StatusCreated, resp)
}

// Update handles PUT /deals/{id}. A change to the commission terms re-syncs
// payment splits; setting fee and installments on a deal without payments
// generates the schedule.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	var req DealRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	repo := h.repo(r)
	d, err := repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading deal", http.StatusInternalServerError)
		return
	}

	before := *d
	termsChanged := req.apply(d)
	if err := validateDeal(d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	existing, err := repo.CountPayments(id)
	if err != nil {
		http.Error(w, "error counting payments", http.StatusInternalServerError)
		return
	}
	if existing > 0 && (!money.NullEqual(before.Fee, d.Fee) || before.PaymentCount() != d.PaymentCount()) {
		http.Error(w, ErrScheduleLocked.Error(), http.StatusConflict)
		return
	}
	if err := repo.Save(d); err != nil {
		http.Error(w, "error saving deal", http.StatusInternalServerError)
		return
	}
	resp := DealResponse{Deal: d}
	h.followUp(r.Context(), d, existing, termsChanged, &resp)
	httpx.JSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /deals/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	if err := h.repo(r).Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "deal not found", http.StatusNotFound)
			return
		}
		http.Error(w, "error deleting deal", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// followUp generates the schedule when it is due, or re-syncs splits when the
// terms moved under existing payments. Failures become a warning; the deal
// itself is already saved.
func (h *Handler) followUp(ctx context.Context, d *models.Deal, existing int64, termsChanged bool, resp *DealResponse) {
	switch {
	case existing == 0 && d.Fee.Valid && d.Fee.Decimal.IsPositive() && d.PaymentCount() > 0 && h.Scheduler != nil:
		res, err := h.Scheduler.EnsureSchedule(ctx, d.ID, nil)
		if err != nil {
			log.Printf("[deal] schedule deal=%d: %v", d.ID, err)
			resp.Warning = err.Error()
			return
		}
		resp.Schedule = res
		if res.SyncError != "" {
			resp.Warning = res.SyncError
		}
	case existing > 0 && termsChanged && h.Sync != nil:
		report, err := h.Sync.Sync(ctx, d.ID)
		if err != nil {
			log.Printf("[deal] sync deal=%d: %v", d.ID, err)
			resp.Warning = err.Error()
			return
		}
		resp.Sync = report
	}
}
