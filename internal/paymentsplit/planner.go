package paymentsplit

import (
	"sort"

	"github.com/oculusrep/commission-api/internal/commission"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
)

// OpKind is what the synchronizer does with one payment split row.
type OpKind string

const (
	OpCreate   OpKind = "create"
	OpUpdate   OpKind = "update"
	OpDelete   OpKind = "delete"
	OpPreserve OpKind = "preserve" // paid row left as is; never written
)

// Op is one planned change. Split holds the desired row for create and
// update, and the current row for delete and preserve.
type Op struct {
	Kind      OpKind
	PaymentID uint
	BrokerID  uint
	SplitID   uint
	Split     models.PaymentSplit
}

// Plan works out the changes that bring the payment splits of a deal in line
// with its commission split templates. It reads nothing and writes nothing.
//
// Paid rows are never touched. Unpaid rows are created, refreshed, or removed
// so that every payment carries exactly one row per template broker.
func Plan(deal *models.Deal, templates []models.CommissionSplit, payments []models.Payment, existing []models.PaymentSplit) ([]Op, error) {
	if len(payments) == 0 {
		return nil, nil
	}
	if deal.PaymentCount() <= 0 {
		return nil, money.ErrNumberOfPaymentsRequired
	}

	byPayment := map[uint][]models.PaymentSplit{}
	for _, s := range existing {
		byPayment[s.PaymentID] = append(byPayment[s.PaymentID], s)
	}

	ordered := append([]models.Payment(nil), payments...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	var ops []Op
	for i := range ordered {
		p := &ordered[i]
		shares, err := commission.ResolveSplits(deal, p, templates)
		if err != nil {
			return nil, err
		}
		ops = append(ops, planPayment(p, shares, byPayment[p.ID])...)
	}
	return ops, nil
}

func planPayment(p *models.Payment, shares []commission.Share, rows []models.PaymentSplit) []Op {
	byBroker := map[uint][]models.PaymentSplit{}
	for _, r := range rows {
		byBroker[r.BrokerID] = append(byBroker[r.BrokerID], r)
	}
	for _, rs := range byBroker {
		sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	}

	var ops []Op
	wanted := map[uint]bool{}
	for _, sh := range shares {
		wanted[sh.BrokerID] = true
		desired := toRow(p.ID, sh)
		current := byBroker[sh.BrokerID]

		if len(current) == 0 {
			ops = append(ops, Op{Kind: OpCreate, PaymentID: p.ID, BrokerID: sh.BrokerID, Split: desired})
			continue
		}

		keeperFound := false
		for _, r := range current {
			if r.Paid {
				keeperFound = true
			}
		}
		for _, r := range current {
			switch {
			case r.Paid:
				ops = append(ops, preserve(r))
			case !keeperFound:
				keeperFound = true
				if stale(r, desired) {
					desired.ID = r.ID
					ops = append(ops, Op{Kind: OpUpdate, PaymentID: p.ID, BrokerID: r.BrokerID, SplitID: r.ID, Split: desired})
				}
			default:
				ops = append(ops, Op{Kind: OpDelete, PaymentID: p.ID, BrokerID: r.BrokerID, SplitID: r.ID, Split: r})
			}
		}
	}

	var orphans []models.PaymentSplit
	for b, rs := range byBroker {
		if !wanted[b] {
			orphans = append(orphans, rs...)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].ID < orphans[j].ID })
	for _, r := range orphans {
		if r.Paid {
			ops = append(ops, preserve(r))
			continue
		}
		ops = append(ops, Op{Kind: OpDelete, PaymentID: p.ID, BrokerID: r.BrokerID, SplitID: r.ID, Split: r})
	}
	return ops
}

func preserve(r models.PaymentSplit) Op {
	return Op{Kind: OpPreserve, PaymentID: r.PaymentID, BrokerID: r.BrokerID, SplitID: r.ID, Split: r}
}

func toRow(paymentID uint, sh commission.Share) models.PaymentSplit {
	return models.PaymentSplit{
		PaymentID:               paymentID,
		BrokerID:                sh.BrokerID,
		SplitOriginationPercent: sh.OriginationPercent,
		SplitSitePercent:        sh.SitePercent,
		SplitDealPercent:        sh.DealPercent,
		SplitOriginationUSD:     sh.OriginationUSD,
		SplitSiteUSD:            sh.SiteUSD,
		SplitDealUSD:            sh.DealUSD,
		SplitBrokerTotal:        sh.Total,
	}
}

func stale(cur, want models.PaymentSplit) bool {
	return !money.NullEqual(cur.SplitOriginationPercent, want.SplitOriginationPercent) ||
		!money.NullEqual(cur.SplitSitePercent, want.SplitSitePercent) ||
		!money.NullEqual(cur.SplitDealPercent, want.SplitDealPercent) ||
		!cur.SplitOriginationUSD.Equal(want.SplitOriginationUSD) ||
		!cur.SplitSiteUSD.Equal(want.SplitSiteUSD) ||
		!cur.SplitDealUSD.Equal(want.SplitDealUSD) ||
		!cur.SplitBrokerTotal.Equal(want.SplitBrokerTotal)
}
