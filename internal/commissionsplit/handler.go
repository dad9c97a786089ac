package commissionsplit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/oculusrep/commission-api/internal/commission"
	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Syncer re-projects a deal's templates onto its payment splits.
type Syncer interface {
	Sync(ctx context.Context, dealID uint) (*paymentsplit.SyncReport, error)
}

type Handler struct {
	Repo *Repository
	Sync Syncer
}

func NewHandler(repo *Repository, sync Syncer) *Handler {
	return &Handler{Repo: repo, Sync: sync}
}

var hundred = decimal.NewFromInt(100)

// List handles GET /deals/{id}/commission-splits
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	list, err := h.repo(r).ListByDeal(dealID)
	if err != nil {
		http.Error(w, "error listing commission splits", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Create handles POST /deals/{id}/commission-splits
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	dealID, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid deal id", http.StatusBadRequest)
		return
	}
	var req SplitRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	repo := h.repo(r)
	deal, ok := h.loadDeal(w, repo.DB, dealID)
	if !ok {
		return
	}
	if deal.HouseOnly {
		http.Error(w, "house-only deals take no broker splits", http.StatusConflict)
		return
	}
	if err := repo.DB.Select("id").First(&models.Broker{}, req.BrokerID).Error; err != nil {
		http.Error(w, "broker not found", http.StatusBadRequest)
		return
	}
	exists, err := repo.ExistsForBroker(dealID, req.BrokerID)
	if err != nil {
		http.Error(w, "error checking commission splits", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "broker already has a split on this deal", http.StatusConflict)
		return
	}

	split := models.CommissionSplit{DealID: dealID, BrokerID: req.BrokerID}
	req.apply(&split)
	if err := h.checkBuckets(repo, dealID, 0, split); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := repo.Create(&split); err != nil {
		http.Error(w, "error creating commission split", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, h.afterWrite(r.Context(), dealID, &split))
}

// Update handles PUT /commission-splits/{sid}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sid, err := httpx.PathID(r, "sid")
	if err != nil {
		http.Error(w, "invalid commission split id", http.StatusBadRequest)
		return
	}
	repo := h.repo(r)
	split, err := repo.FindByID(sid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "commission split not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading commission split", http.StatusInternalServerError)
		return
	}

	var req SplitRequest
	req.BrokerID = split.BrokerID
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.apply(split)
	if err := h.checkBuckets(repo, split.DealID, split.ID, *split); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := repo.Update(split); err != nil {
		http.Error(w, "error updating commission split", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, h.afterWrite(r.Context(), split.DealID, split))
}

// Delete handles DELETE /commission-splits/{sid}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sid, err := httpx.PathID(r, "sid")
	if err != nil {
		http.Error(w, "invalid commission split id", http.StatusBadRequest)
		return
	}
	repo := h.repo(r)
	split, err := repo.FindByID(sid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "commission split not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading commission split", http.StatusInternalServerError)
		return
	}
	if err := repo.Delete(sid); err != nil {
		http.Error(w, "error deleting commission split", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, h.afterWrite(r.Context(), split.DealID, nil))
}

func (h *Handler) repo(r *http.Request) *Repository {
	return h.Repo.WithDB(h.Repo.DB.WithContext(r.Context()))
}

func (h *Handler) loadDeal(w http.ResponseWriter, db *gorm.DB, dealID uint) (*models.Deal, bool) {
	var d models.Deal
	err := db.First(&d, dealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "deal not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "error loading deal", http.StatusInternalServerError)
		return nil, false
	}
	return &d, true
}

// checkBuckets rejects a change that would allocate more than 100% of any
// bucket across the deal's brokers. Less than 100% is allowed; the rest stays
// with the house.
func (h *Handler) checkBuckets(repo *Repository, dealID, replacing uint, next models.CommissionSplit) error {
	current, err := repo.ListByDeal(dealID)
	if err != nil {
		return fmt.Errorf("error checking commission splits: %w", err)
	}
	templates := []models.CommissionSplit{next}
	for _, c := range current {
		if c.ID != replacing {
			templates = append(templates, c)
		}
	}
	orig, site, deal := commission.BucketTotals(templates)
	buckets := []struct {
		name  string
		total decimal.Decimal
	}{{"origination", orig}, {"site", site}, {"deal", deal}}
	for _, b := range buckets {
		if b.total.GreaterThan(hundred) {
			return fmt.Errorf("%s percentages across brokers would total %s%%", b.name, b.total.String())
		}
	}
	return nil
}

// afterWrite runs the synchronizer. The template change already succeeded,
// so a sync error is reported in the body rather than failing the request.
func (h *Handler) afterWrite(ctx context.Context, dealID uint, split *models.CommissionSplit) SplitResponse {
	resp := SplitResponse{Split: split}
	if h.Sync == nil {
		return resp
	}
	report, err := h.Sync.Sync(ctx, dealID)
	if err != nil {
		log.Printf("[commissionsplit] sync after write deal=%d: %v", dealID, err)
		resp.SyncError = err.Error()
		return resp
	}
	resp.Sync = report
	return resp
}
