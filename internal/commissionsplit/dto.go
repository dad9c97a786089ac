package commissionsplit

import (
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"github.com/shopspring/decimal"
)

// SplitRequest is the body of POST /deals/{id}/commission-splits and
// PUT /commission-splits/{sid}. BrokerID is ignored on update.
type SplitRequest struct {
	BrokerID           uint     `json:"brokerId" validate:"required"`
	OriginationPercent *float64 `json:"originationPercent" validate:"omitempty,gte=0,lte=100"`
	SitePercent        *float64 `json:"sitePercent" validate:"omitempty,gte=0,lte=100"`
	DealPercent        *float64 `json:"dealPercent" validate:"omitempty,gte=0,lte=100"`
}

func nullPercent(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*v), Valid: true}
}

func (req SplitRequest) apply(s *models.CommissionSplit) {
	s.OriginationPercent = nullPercent(req.OriginationPercent)
	s.SitePercent = nullPercent(req.SitePercent)
	s.DealPercent = nullPercent(req.DealPercent)
}

// SplitResponse returns the saved template with the sync it triggered.
type SplitResponse struct {
	Split *models.CommissionSplit  `json:"split,omitempty"`
	Sync  *paymentsplit.SyncReport `json:"sync,omitempty"`
	// SyncError is set when the template was saved but the sync could not run.
	SyncError string `json:"syncError,omitempty"`
}
