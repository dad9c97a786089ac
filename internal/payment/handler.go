package payment

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/oculusrep/commission-api/internal/commission"
	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) repo(r *http.Request) *Repository {
	return h.Service.Repo.WithDB(h.Service.Repo.DB.WithContext(r.Context()))
}

// List handles GET /deals/{id}/payments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	payments, err := h.repo(r).ListByDeal(dealID)
	if err != nil {
		http.Error(w, "error listing payments", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, payments)
}

// Generate handles POST /deals/{id}/payments/generate. The body is optional.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "malformed JSON", http.StatusBadRequest)
		return
	}

	res, err := h.Service.EnsureSchedule(r.Context(), dealID, req.FirstEstimatedDate)
	switch {
	case errors.Is(err, ErrDealNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrFeeRequired), errors.Is(err, ErrNumberOfPaymentsRequired):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		http.Error(w, "error generating payments", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	httpx.JSON(w, status, res)
}

// MarkReceived handles PATCH /payments/{pid}/received
func (h *Handler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	var req ReceivedRequest
	h.patch(w, r, &req, func(repo *Repository, p *models.Payment) (int, error) {
		return 0, repo.SetReceived(p.ID, *req.Received, dateOrNow(req.Date))
	})
}

// MarkReferralPaid handles PATCH /payments/{pid}/referral-paid
func (h *Handler) MarkReferralPaid(w http.ResponseWriter, r *http.Request) {
	var req ReferralPaidRequest
	h.patch(w, r, &req, func(repo *Repository, p *models.Payment) (int, error) {
		var deal models.Deal
		if err := repo.DB.First(&deal, p.DealID).Error; err != nil {
			return http.StatusNotFound, errors.New("deal not found")
		}
		if commission.ReferralUSD(&deal).IsZero() {
			return http.StatusConflict, errors.New("deal has no referral fee")
		}
		return 0, repo.SetReferralPaid(p.ID, *req.Paid, dateOrNow(req.Date))
	})
}

// SetEstimatedDate handles PATCH /payments/{pid}/estimated-date
func (h *Handler) SetEstimatedDate(w http.ResponseWriter, r *http.Request) {
	var req EstimatedDateRequest
	h.patch(w, r, &req, func(repo *Repository, p *models.Payment) (int, error) {
		return 0, repo.SetEstimatedDate(p.ID, req.Date)
	})
}

// SetInvoice handles PATCH /payments/{pid}/invoice
func (h *Handler) SetInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	h.patch(w, r, &req, func(repo *Repository, p *models.Payment) (int, error) {
		return 0, repo.SetInvoiceNumber(p.ID, req.InvoiceNumber)
	})
}

// patch loads the payment, decodes req, runs fn and writes the updated row.
// fn returns a status to use when its error is a client error.
func (h *Handler) patch(w http.ResponseWriter, r *http.Request, req any, fn func(*Repository, *models.Payment) (int, error)) {
	pid, err := httpx.PathID(r, "pid")
	if err != nil {
		http.Error(w, "invalid payment id", http.StatusBadRequest)
		return
	}
	if err := httpx.Decode(r, req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	repo := h.repo(r)
	p, err := repo.FindByID(pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading payment", http.StatusInternalServerError)
		return
	}
	if status, err := fn(repo, p); err != nil {
		if status == 0 {
			log.Printf("[payment] update payment %d: %v", pid, err)
			http.Error(w, "error updating payment", http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), status)
		return
	}
	updated, err := repo.FindByID(pid)
	if err != nil {
		http.Error(w, "error loading payment", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func dateOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}
