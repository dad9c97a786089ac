// Package commission turns a deal's commission terms and its broker split
// templates into dollar amounts. Everything here is pure; persistence lives
// in the paymentsplit and payment packages.
package commission

import (
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/shopspring/decimal"
)

// ErrNumberOfPaymentsRequired is re-exported for callers that only import
// this package.
var ErrNumberOfPaymentsRequired = money.ErrNumberOfPaymentsRequired

var cent = decimal.New(1, -2)

// Totals is the deal-level breakdown of the fee.
type Totals struct {
	Fee         decimal.Decimal `json:"fee"`
	ReferralUSD decimal.Decimal `json:"referralFeeUsd"`
	GCI         decimal.Decimal `json:"gci"`
	HouseUSD    decimal.Decimal `json:"houseUsd"`
	AGCI        decimal.Decimal `json:"agci"`
}

// Share is one broker's cut of one payment.
type Share struct {
	BrokerID uint

	OriginationPercent decimal.NullDecimal
	SitePercent        decimal.NullDecimal
	DealPercent        decimal.NullDecimal

	OriginationUSD decimal.Decimal
	SiteUSD        decimal.Decimal
	DealUSD        decimal.Decimal
	Total          decimal.Decimal
}

// ReferralUSD returns the deal's referral fee, or zero when absent or not positive.
func ReferralUSD(d *models.Deal) decimal.Decimal {
	r := money.OrZero(d.ReferralFeeUSD)
	if !r.IsPositive() {
		return decimal.Zero
	}
	return r
}

// ComputeTotals returns GCI, house cut and AGCI for the deal.
func ComputeTotals(d *models.Deal) Totals {
	fee := money.OrZero(d.Fee)
	ref := ReferralUSD(d)
	gci := fee.Sub(ref)
	house := money.Cents(money.Percent(gci, money.OrZero(d.HousePercent)))
	return Totals{
		Fee:         fee,
		ReferralUSD: ref,
		GCI:         gci,
		HouseUSD:    house,
		AGCI:        gci.Sub(house),
	}
}

// PaymentBase returns what remains of the payment for the broker buckets once
// this installment's share of the referral fee and of the house cut are taken
// out. A negative base is reported as zero.
func PaymentBase(d *models.Deal, p *models.Payment) (decimal.Decimal, error) {
	n := d.PaymentCount()
	if n <= 0 {
		return decimal.Zero, money.ErrNumberOfPaymentsRequired
	}
	t := ComputeTotals(d)
	ref, err := money.Installment(t.ReferralUSD, n, clampSequence(p.Sequence, n))
	if err != nil {
		return decimal.Zero, err
	}
	house, err := money.Installment(t.HouseUSD, n, clampSequence(p.Sequence, n))
	if err != nil {
		return decimal.Zero, err
	}
	base := p.Amount.Sub(ref).Sub(house)
	if base.IsNegative() {
		return decimal.Zero, nil
	}
	return base, nil
}

// clampSequence maps sequences beyond n (left over after n was lowered) onto
// the last installment.
func clampSequence(seq, n int) int {
	if seq < 1 {
		return 1
	}
	if seq > n {
		return n
	}
	return seq
}

// Pools returns the origination, site and deal pools carved out of base.
func Pools(d *models.Deal, base decimal.Decimal) (orig, site, deal decimal.Decimal) {
	orig = money.Percent(base, money.OrZero(d.OriginationPercent))
	site = money.Percent(base, money.OrZero(d.SitePercent))
	deal = money.Percent(base, money.OrZero(d.DealPercent))
	return orig, site, deal
}

// ResolveSplit computes one broker's amounts for one payment.
func ResolveSplit(d *models.Deal, p *models.Payment, tmpl models.CommissionSplit) (Share, error) {
	base, err := PaymentBase(d, p)
	if err != nil {
		return Share{}, err
	}
	origPool, sitePool, dealPool := Pools(d, base)
	return shareFromPools(tmpl, origPool, sitePool, dealPool), nil
}

// ResolveSplits computes every broker's amounts for one payment. House-only
// deals yield no shares.
func ResolveSplits(d *models.Deal, p *models.Payment, templates []models.CommissionSplit) ([]Share, error) {
	if d.HouseOnly {
		return nil, nil
	}
	base, err := PaymentBase(d, p)
	if err != nil {
		return nil, err
	}
	origPool, sitePool, dealPool := Pools(d, base)
	shares := make([]Share, 0, len(templates))
	for _, tmpl := range templates {
		shares = append(shares, shareFromPools(tmpl, origPool, sitePool, dealPool))
	}
	return shares, nil
}

// shareFromPools truncates the broker's full-precision total to the cent, then
// hands the cents lost by truncating each bucket back to the buckets with the
// largest remainders so the buckets always add up to Total.
func shareFromPools(tmpl models.CommissionSplit, origPool, sitePool, dealPool decimal.Decimal) Share {
	exact := [3]decimal.Decimal{
		money.Percent(origPool, money.OrZero(tmpl.OriginationPercent)),
		money.Percent(sitePool, money.OrZero(tmpl.SitePercent)),
		money.Percent(dealPool, money.OrZero(tmpl.DealPercent)),
	}
	total := money.Cents(money.Sum(exact[:]...))
	var buckets [3]decimal.Decimal
	for i, e := range exact {
		buckets[i] = money.Cents(e)
	}
	leftover := total.Sub(money.Sum(buckets[:]...))
	for leftover.IsPositive() {
		best := 0
		for i := 1; i < len(exact); i++ {
			if exact[i].Sub(buckets[i]).GreaterThan(exact[best].Sub(buckets[best])) {
				best = i
			}
		}
		buckets[best] = buckets[best].Add(cent)
		leftover = leftover.Sub(cent)
	}
	return Share{
		BrokerID:           tmpl.BrokerID,
		OriginationPercent: tmpl.OriginationPercent,
		SitePercent:        tmpl.SitePercent,
		DealPercent:        tmpl.DealPercent,
		OriginationUSD:     buckets[0],
		SiteUSD:            buckets[1],
		DealUSD:            buckets[2],
		Total:              total,
	}
}

// ProjectBrokerNet estimates what brokers take home over the whole deal from
// the templates alone, for deals that have no payments yet.
func ProjectBrokerNet(d *models.Deal, templates []models.CommissionSplit) decimal.Decimal {
	if d.HouseOnly {
		return decimal.Zero
	}
	agci := ComputeTotals(d).AGCI
	if !agci.IsPositive() {
		return decimal.Zero
	}
	origPool, sitePool, dealPool := Pools(d, agci)
	total := decimal.Zero
	for _, tmpl := range templates {
		total = total.Add(shareFromPools(tmpl, origPool, sitePool, dealPool).Total)
	}
	return total
}

// BucketTotals sums the template percentages per bucket across brokers.
func BucketTotals(templates []models.CommissionSplit) (orig, site, deal decimal.Decimal) {
	for _, t := range templates {
		orig = orig.Add(money.OrZero(t.OriginationPercent))
		site = site.Add(money.OrZero(t.SitePercent))
		deal = deal.Add(money.OrZero(t.DealPercent))
	}
	return orig, site, deal
}
