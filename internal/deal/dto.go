package deal

import (
	"errors"
	"fmt"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/shopspring/decimal"
)

// DealRequest is the body of POST /deals and PUT /deals/{id}. Absent fields
// are left untouched on update.
type DealRequest struct {
	Name                  *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Stage                 *string          `json:"stage"`
	Fee                   *decimal.Decimal `json:"fee"`
	NumberOfPayments      *int             `json:"numberOfPayments" validate:"omitempty,gte=1,lte=120"`
	HousePercent          *float64         `json:"housePercent" validate:"omitempty,gte=0,lte=100"`
	OriginationPercent    *float64         `json:"originationPercent" validate:"omitempty,gte=0,lte=100"`
	SitePercent           *float64         `json:"sitePercent" validate:"omitempty,gte=0,lte=100"`
	DealPercent           *float64         `json:"dealPercent" validate:"omitempty,gte=0,lte=100"`
	ReferralFeeUSD        *decimal.Decimal `json:"referralFeeUsd"`
	ReferralFeePercent    *float64         `json:"referralFeePercent" validate:"omitempty,gte=0,lte=100"`
	ReferralPayee         *string          `json:"referralPayee" validate:"omitempty,max=255"`
	ReferralPayeeClientID *uint            `json:"referralPayeeClientId"`
	HouseOnly             *bool            `json:"houseOnly"`
}

func nullFromFloat(v float64) decimal.NullDecimal {
	return money.Null(decimal.NewFromFloat(v))
}

// apply copies the present fields onto d and reports whether any commission
// term changed.
func (req DealRequest) apply(d *models.Deal) (termsChanged bool) {
	setPct := func(dst *decimal.NullDecimal, v *float64) {
		if v == nil {
			return
		}
		next := nullFromFloat(*v)
		if !dst.Valid || !money.NullEqual(*dst, next) {
			termsChanged = true
		}
		*dst = next
	}
	setMoney := func(dst *decimal.NullDecimal, v *decimal.Decimal) {
		if v == nil {
			return
		}
		next := money.Null(*v)
		if !dst.Valid || !money.NullEqual(*dst, next) {
			termsChanged = true
		}
		*dst = next
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Stage != nil {
		d.Stage = *req.Stage
	}
	setMoney(&d.Fee, req.Fee)
	if req.NumberOfPayments != nil {
		if d.PaymentCount() != *req.NumberOfPayments {
			termsChanged = true
		}
		n := *req.NumberOfPayments
		d.NumberOfPayments = &n
	}
	setPct(&d.HousePercent, req.HousePercent)
	setPct(&d.OriginationPercent, req.OriginationPercent)
	setPct(&d.SitePercent, req.SitePercent)
	setPct(&d.DealPercent, req.DealPercent)
	setMoney(&d.ReferralFeeUSD, req.ReferralFeeUSD)
	if req.ReferralFeePercent != nil {
		d.ReferralFeePercent = nullFromFloat(*req.ReferralFeePercent)
	}
	if req.ReferralPayee != nil {
		d.ReferralPayee = *req.ReferralPayee
	}
	if req.ReferralPayeeClientID != nil {
		id := *req.ReferralPayeeClientID
		d.ReferralPayeeClientID = &id
	}
	if req.HouseOnly != nil {
		if d.HouseOnly != *req.HouseOnly {
			termsChanged = true
		}
		d.HouseOnly = *req.HouseOnly
	}
	return termsChanged
}

// validateDeal checks the rules that span fields.
func validateDeal(d *models.Deal) error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if !models.ValidStage(d.Stage) {
		return fmt.Errorf("unknown stage %q", d.Stage)
	}
	if d.Fee.Valid && d.Fee.Decimal.IsNegative() {
		return errors.New("fee must not be negative")
	}
	if d.ReferralFeeUSD.Valid && d.ReferralFeeUSD.Decimal.IsNegative() {
		return errors.New("referral fee must not be negative")
	}
	if d.ReferralFeeUSD.Valid && d.Fee.Valid && d.ReferralFeeUSD.Decimal.GreaterThan(d.Fee.Decimal) {
		return errors.New("referral fee exceeds the deal fee")
	}
	buckets := money.Sum(money.OrZero(d.OriginationPercent), money.OrZero(d.SitePercent), money.OrZero(d.DealPercent))
	if buckets.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("origination, site and deal percentages total %s%%, above 100%%", buckets.String())
	}
	return nil
}
