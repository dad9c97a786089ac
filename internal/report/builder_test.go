package report

import (
	"testing"
	"time"

	"github.com/oculusrep/commission-api/internal/disbursement"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func pct(v int64) decimal.NullDecimal { return money.Null(decimal.NewFromInt(v)) }

func split(id, broker uint, total string, paid bool) models.PaymentSplit {
	return models.PaymentSplit{
		ID:               id,
		BrokerID:         broker,
		SplitDealUSD:     dec(total),
		SplitBrokerTotal: dec(total),
		Paid:             paid,
		Broker:           &models.Broker{ID: broker, Name: "Broker"},
	}
}

func TestBuildPaymentDashboard(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)
	n := 2
	deals := []models.Deal{{
		ID:               1,
		Name:             "Midtown",
		Stage:            models.StageBooked,
		Fee:              money.Null(dec("20000")),
		NumberOfPayments: &n,
		ReferralFeeUSD:   money.Null(dec("2000")),
		ReferralPayee:    "Acme Realty",
		Payments: []models.Payment{
			{ID: 10, Sequence: 1, Amount: dec("10000"), Received: true, EstimatedDate: &past, ReferralFeePaid: true,
				Splits: []models.PaymentSplit{split(1, 1, "3000", true), split(2, 2, "2000", true)}},
			{ID: 11, Sequence: 2, Amount: dec("10000"), EstimatedDate: &future,
				Splits: []models.PaymentSplit{split(3, 1, "3000", true), split(4, 2, "2000", false)}},
		},
	}, {
		ID:               2,
		Name:             "Buckhead",
		Stage:            models.StageAtLeasePSA,
		Fee:              money.Null(dec("5000")),
		NumberOfPayments: &[]int{1}[0],
		Payments:         []models.Payment{{ID: 20, Sequence: 1, Amount: dec("5000")}},
	}}

	dash := BuildPaymentDashboard(deals, now, "")
	if len(dash.Rows) != 3 {
		t.Fatalf("rows = %d", len(dash.Rows))
	}
	first, second, third := dash.Rows[0], dash.Rows[1], dash.Rows[2]
	if first.Status != disbursement.StatusPaid || first.Overdue {
		t.Errorf("first: status %s overdue %v", first.Status, first.Overdue)
	}
	if first.Referral == nil || !first.Referral.Amount.Equal(dec("1000")) || first.Referral.Payee != "Acme Realty" {
		t.Errorf("first referral = %+v", first.Referral)
	}
	if second.Status != disbursement.StatusPartial || second.Overdue {
		t.Errorf("second: status %s overdue %v", second.Status, second.Overdue)
	}
	if !second.Summary.TotalUnpaid.Equal(dec("3000")) {
		t.Errorf("second unpaid = %s, want 2000 broker + 1000 referral", second.Summary.TotalUnpaid)
	}
	if third.Status != disbursement.StatusUnpaid || !third.Overdue || third.Referral != nil {
		t.Errorf("third = %+v", third)
	}
	if len(first.Brokers) != 2 || first.Brokers[0].BrokerName != "Broker" {
		t.Errorf("brokers = %+v", first.Brokers)
	}
	if dash.Counts[disbursement.StatusPaid] != 1 || dash.Counts[disbursement.StatusPartial] != 1 || dash.Counts[disbursement.StatusUnpaid] != 1 {
		t.Errorf("counts = %v", dash.Counts)
	}

	filtered := BuildPaymentDashboard(deals, now, disbursement.StatusPartial)
	if len(filtered.Rows) != 1 || filtered.Rows[0].PaymentID != 11 {
		t.Fatalf("filtered = %+v", filtered.Rows)
	}
	if filtered.Totals.FullyDisbursed {
		t.Error("partial totals must not be fully disbursed")
	}
}

func TestBuildPaymentDashboardEmpty(t *testing.T) {
	dash := BuildPaymentDashboard(nil, time.Now(), "")
	if dash.Rows == nil || len(dash.Rows) != 0 {
		t.Fatalf("rows = %v", dash.Rows)
	}
	if dash.Totals.AllBrokersPaid || dash.Totals.FullyDisbursed {
		t.Error("empty dashboard must not read as paid")
	}
}

func TestBuildRobReportMissingSplits(t *testing.T) {
	n := 1
	deals := []models.Deal{
		{ID: 1, Name: "No splits", Stage: models.StageBooked, Fee: money.Null(dec("10000")), NumberOfPayments: &n, HousePercent: pct(40)},
		{ID: 2, Name: "House deal", Stage: models.StageBooked, HouseOnly: true, Fee: money.Null(dec("10000")), HousePercent: pct(100)},
		{ID: 3, Name: "Lost", Stage: models.StageLost},
	}
	rep := BuildRobReport(deals, time.Now())

	for _, row := range rep.Stages {
		if row.Stage == models.StageLost {
			t.Fatal("Lost stage must not be reported")
		}
	}
	var booked StageRow
	for _, row := range rep.Stages {
		if row.Stage == models.StageBooked {
			booked = row
		}
	}
	if booked.Deals != 2 {
		t.Fatalf("booked deals = %d", booked.Deals)
	}
	if booked.MissingSplits != 1 || len(booked.MissingDealIDs) != 1 || booked.MissingDealIDs[0] != 1 {
		t.Errorf("missing = %d %v", booked.MissingSplits, booked.MissingDealIDs)
	}
	if !booked.GCI.Equal(dec("20000")) || !booked.House.Equal(dec("14000")) || !booked.AGCI.Equal(dec("6000")) {
		t.Errorf("gci %s house %s agci %s", booked.GCI, booked.House, booked.AGCI)
	}
	if rep.Totals.MissingSplits != 1 || rep.Totals.Deals != 2 {
		t.Errorf("totals = %+v", rep.Totals)
	}
}

func TestBuildRobReportBrokerNet(t *testing.T) {
	n := 2
	tmpl := models.CommissionSplit{BrokerID: 1, OriginationPercent: pct(100), SitePercent: pct(100), DealPercent: pct(100)}
	projected := models.Deal{
		ID: 1, Stage: models.StageNegotiatingLOI, Fee: money.Null(dec("10000")), NumberOfPayments: &n,
		HousePercent: pct(40), OriginationPercent: pct(50), SitePercent: pct(25), DealPercent: pct(25),
		CommissionSplits: []models.CommissionSplit{tmpl},
	}
	materialized := models.Deal{
		ID: 2, Stage: models.StageNegotiatingLOI, Fee: money.Null(dec("10000")), NumberOfPayments: &n,
		CommissionSplits: []models.CommissionSplit{tmpl},
		Payments: []models.Payment{
			{Sequence: 1, Amount: dec("5000"), Received: true, Splits: []models.PaymentSplit{split(1, 1, "2500", true)}},
			{Sequence: 2, Amount: dec("5000"), Splits: []models.PaymentSplit{split(2, 1, "1500", false)}},
		},
	}
	rep := BuildRobReport([]models.Deal{projected, materialized}, time.Now())
	row := rep.Stages[0]
	if row.Stage != models.StageNegotiatingLOI {
		t.Fatalf("first stage = %s", row.Stage)
	}
	// 6000 projected over AGCI plus 4000 of materialized splits.
	if !row.BrokerNet.Equal(dec("10000")) {
		t.Errorf("broker net = %s", row.BrokerNet)
	}
	if !row.Received.Equal(dec("5000")) || !row.Pending.Equal(dec("5000")) {
		t.Errorf("received %s pending %s", row.Received, row.Pending)
	}
}

func TestBuildBrokerSummary(t *testing.T) {
	n := 1
	b := models.Broker{ID: 1, Name: "Mike", Email: "mike@example.com"}
	deals := []models.Deal{
		{ID: 1, Stage: models.StageBooked, Payments: []models.Payment{{Sequence: 1, Splits: []models.PaymentSplit{
			split(1, 1, "1000", true), split(2, 1, "500", false), split(3, 2, "700", false),
		}}}},
		{ID: 2, Stage: models.StageAtLeasePSA, Fee: money.Null(dec("1000")), NumberOfPayments: &n,
			OriginationPercent: pct(100),
			CommissionSplits: []models.CommissionSplit{
				{BrokerID: 1, OriginationPercent: pct(50)},
				{BrokerID: 2, OriginationPercent: pct(50)},
			}},
		{ID: 3, Stage: models.StageLost, Payments: []models.Payment{{Splits: []models.PaymentSplit{split(4, 1, "9999", false)}}}},
	}
	s := BuildBrokerSummary(b, deals)
	if s.Deals != 2 {
		t.Errorf("deals = %d", s.Deals)
	}
	if !s.PaidOut.Equal(dec("1000")) || !s.Receivable.Equal(dec("500")) || !s.Projected.Equal(dec("500")) {
		t.Errorf("summary = %+v", s)
	}
}
