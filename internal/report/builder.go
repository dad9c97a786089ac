package report

import (
	"fmt"
	"time"

	"github.com/oculusrep/commission-api/internal/commission"
	"github.com/oculusrep/commission-api/internal/disbursement"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/referral"
	"github.com/shopspring/decimal"
)

/* ===== Payment Dashboard ===== */

// BuildPaymentDashboard turns loaded deals into one row per payment. Deals
// must carry Payments with Splits and Splits.Broker preloaded. A non-empty
// filter keeps only rows with that status.
func BuildPaymentDashboard(deals []models.Deal, now time.Time, filter disbursement.Status) PaymentDashboard {
	out := PaymentDashboard{
		Rows:   []PaymentRow{},
		Counts: map[disbursement.Status]int{},
	}
	totals := disbursement.Summary{AllBrokersPaid: true, ReferralPaid: true, FullyDisbursed: true}

	for i := range deals {
		d := &deals[i]
		for j := range d.Payments {
			row := buildPaymentRow(d, &d.Payments[j], now)
			out.Counts[row.Status]++
			if filter != "" && row.Status != filter {
				continue
			}
			totals = totals.Add(row.Summary)
			out.Rows = append(out.Rows, row)
		}
	}
	if len(out.Rows) > 0 {
		out.Totals = totals
	}
	return out
}

func buildPaymentRow(d *models.Deal, p *models.Payment, now time.Time) PaymentRow {
	row := PaymentRow{
		PaymentID:     p.ID,
		DealID:        d.ID,
		DealName:      d.Name,
		Stage:         d.Stage,
		Sequence:      p.Sequence,
		Installments:  d.PaymentCount(),
		Amount:        p.Amount,
		Received:      p.Received,
		ReceivedDate:  p.ReceivedDate,
		EstimatedDate: p.EstimatedDate,
		Overdue:       disbursement.OverdueEstimate(p, now),
		InvoiceNumber: p.InvoiceNumber,
		Brokers:       make([]BrokerLine, 0, len(p.Splits)),
	}
	for _, sp := range p.Splits {
		line := BrokerLine{
			SplitID:        sp.ID,
			BrokerID:       sp.BrokerID,
			OriginationUSD: sp.SplitOriginationUSD,
			SiteUSD:        sp.SplitSiteUSD,
			DealUSD:        sp.SplitDealUSD,
			Total:          sp.SplitBrokerTotal,
			Paid:           sp.Paid,
			PaidDate:       sp.PaidDate,
		}
		if sp.Broker != nil {
			line.BrokerName = sp.Broker.Name
		}
		row.Brokers = append(row.Brokers, line)
	}

	ref, err := referral.ComputeReferralInfo(d, p)
	if err != nil {
		row.Warning = fmt.Sprintf("referral: %v", err)
	}
	row.Referral = ref
	row.Summary = disbursement.Aggregate(p.Splits, ref)
	row.Status = row.Summary.Status()
	return row
}

/* ===== Rob Report ===== */

// BuildRobReport rolls deals up by pipeline stage. Lost deals are left out.
// Deals must carry CommissionSplits and Payments with Splits preloaded.
func BuildRobReport(deals []models.Deal, now time.Time) RobReport {
	rows := make(map[string]*StageRow)
	var order []string
	for _, st := range models.Stages {
		if !disbursement.Reportable(st) {
			continue
		}
		rows[st] = newStageRow(st)
		order = append(order, st)
	}

	for i := range deals {
		d := &deals[i]
		row, ok := rows[d.Stage]
		if !ok {
			continue
		}
		addDeal(row, d)
	}

	rep := RobReport{GeneratedAt: now, Totals: *newStageRow("Total")}
	for _, st := range order {
		row := rows[st]
		rep.Stages = append(rep.Stages, *row)
		mergeStage(&rep.Totals, row)
	}
	return rep
}

func newStageRow(stage string) *StageRow {
	return &StageRow{
		Stage:          stage,
		GCI:            decimal.Zero,
		AGCI:           decimal.Zero,
		House:          decimal.Zero,
		BrokerNet:      decimal.Zero,
		Received:       decimal.Zero,
		Pending:        decimal.Zero,
		MissingDealIDs: []uint{},
	}
}

func addDeal(row *StageRow, d *models.Deal) {
	totals := commission.ComputeTotals(d)
	row.Deals++
	row.GCI = row.GCI.Add(totals.GCI)
	row.AGCI = row.AGCI.Add(totals.AGCI)
	row.House = row.House.Add(totals.HouseUSD)
	row.BrokerNet = row.BrokerNet.Add(brokerNet(d))

	for _, p := range d.Payments {
		if p.Received {
			row.Received = row.Received.Add(p.Amount)
		} else {
			row.Pending = row.Pending.Add(p.Amount)
		}
	}
	if disbursement.MissingSplits(d, len(d.CommissionSplits)) {
		row.MissingSplits++
		row.MissingDealIDs = append(row.MissingDealIDs, d.ID)
	}
}

// brokerNet is the materialized split total once payments exist, and the
// template projection before that.
func brokerNet(d *models.Deal) decimal.Decimal {
	if len(d.Payments) == 0 {
		return commission.ProjectBrokerNet(d, d.CommissionSplits)
	}
	total := decimal.Zero
	for _, p := range d.Payments {
		for _, sp := range p.Splits {
			total = total.Add(sp.SplitBrokerTotal)
		}
	}
	return total
}

func mergeStage(dst *StageRow, src *StageRow) {
	dst.Deals += src.Deals
	dst.GCI = dst.GCI.Add(src.GCI)
	dst.AGCI = dst.AGCI.Add(src.AGCI)
	dst.House = dst.House.Add(src.House)
	dst.BrokerNet = dst.BrokerNet.Add(src.BrokerNet)
	dst.Received = dst.Received.Add(src.Received)
	dst.Pending = dst.Pending.Add(src.Pending)
	dst.MissingSplits += src.MissingSplits
	dst.MissingDealIDs = append(dst.MissingDealIDs, src.MissingDealIDs...)
}

/* ===== Broker summary ===== */

// BuildBrokerSummary totals what broker b has been paid, is still owed on
// existing payments, and is projected to earn on deals without payments.
// Deals must be the ones b holds a template on, with the same preloads as
// BuildRobReport.
func BuildBrokerSummary(b models.Broker, deals []models.Deal) BrokerSummary {
	s := BrokerSummary{
		BrokerID:   b.ID,
		Name:       b.Name,
		Email:      b.Email,
		PaidOut:    decimal.Zero,
		Receivable: decimal.Zero,
		Projected:  decimal.Zero,
	}
	for i := range deals {
		d := &deals[i]
		if d.Stage == models.StageLost {
			continue
		}
		s.Deals++
		if len(d.Payments) == 0 {
			var mine []models.CommissionSplit
			for _, t := range d.CommissionSplits {
				if t.BrokerID == b.ID {
					mine = append(mine, t)
				}
			}
			s.Projected = s.Projected.Add(commission.ProjectBrokerNet(d, mine))
			continue
		}
		for _, p := range d.Payments {
			for _, sp := range p.Splits {
				if sp.BrokerID != b.ID {
					continue
				}
				if sp.Paid {
					s.PaidOut = s.PaidOut.Add(sp.SplitBrokerTotal)
				} else {
					s.Receivable = s.Receivable.Add(sp.SplitBrokerTotal)
				}
			}
		}
	}
	return s
}
