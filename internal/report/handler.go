package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/oculusrep/commission-api/internal/auth"
	"github.com/oculusrep/commission-api/internal/disbursement"
	"github.com/oculusrep/commission-api/internal/httpx"
	"github.com/oculusrep/commission-api/internal/notification"
	"gorm.io/gorm"
)

type Handler struct {
	Repo     *Repository
	Notifier notification.Notifier
	Now      func() time.Time
}

func NewHandler(repo *Repository, n notification.Notifier) *Handler {
	return &Handler{Repo: repo, Notifier: n, Now: time.Now}
}

func (h *Handler) repo(r *http.Request) *Repository {
	return h.Repo.WithDB(h.Repo.DB.WithContext(r.Context()))
}

// Payments handles GET /reports/payments[?status=paid|partial|unpaid]
func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	var filter disbursement.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := disbursement.ParseStatus(raw)
		if !ok {
			http.Error(w, "status must be paid, partial or unpaid", http.StatusBadRequest)
			return
		}
		filter = st
	}
	deals, err := h.repo(r).DealsWithPayments()
	if err != nil {
		log.Printf("[report] payments: %v", err)
		http.Error(w, "error loading payments", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildPaymentDashboard(deals, h.Now(), filter))
}

// Rob handles GET /reports/rob. With ?alert=1 a non-zero missing-splits count
// is also posted to the alert webhook.
func (h *Handler) Rob(w http.ResponseWriter, r *http.Request) {
	deals, err := h.repo(r).PipelineDeals()
	if err != nil {
		log.Printf("[report] rob: %v", err)
		http.Error(w, "error loading pipeline", http.StatusInternalServerError)
		return
	}
	rep := BuildRobReport(deals, h.Now())
	if rep.Totals.MissingSplits > 0 {
		log.Printf("[report] %d deal(s) without commission splits: %v", rep.Totals.MissingSplits, rep.Totals.MissingDealIDs)
		if r.URL.Query().Get("alert") == "1" {
			h.alertMissing(r.Context(), rep)
		}
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) alertMissing(ctx context.Context, rep RobReport) {
	if h.Notifier == nil {
		return
	}
	a := notification.Alert{
		Kind:    notification.KindMissingSplits,
		Message: fmt.Sprintf("%d deal(s) have no commission splits", rep.Totals.MissingSplits),
		Details: map[string]any{"dealIds": rep.Totals.MissingDealIDs},
	}
	if err := h.Notifier.Notify(ctx, a); err != nil {
		log.Printf("[report] missing-splits alert: %v", err)
	}
}

// Broker handles GET /brokers/{id}/summary. Brokers see their own summary;
// admins see anyone's.
func (h *Handler) Broker(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		http.Error(w, "invalid broker id", http.StatusBadRequest)
		return
	}
	caller, _ := auth.BrokerID(r.Context())
	if caller != id && !auth.IsAdmin(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	repo := h.repo(r)
	b, err := repo.FindBroker(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "broker not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "error loading broker", http.StatusInternalServerError)
		return
	}
	deals, err := repo.DealsForBroker(id)
	if err != nil {
		log.Printf("[report] broker %d: %v", id, err)
		http.Error(w, "error loading deals", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildBrokerSummary(*b, deals))
}
