package report

import (
	"time"

	"github.com/oculusrep/commission-api/internal/disbursement"
	"github.com/oculusrep/commission-api/internal/referral"
	"github.com/shopspring/decimal"
)

// BrokerLine is one broker's cut of a payment on the dashboard.
type BrokerLine struct {
	SplitID        uint            `json:"splitId"`
	BrokerID       uint            `json:"brokerId"`
	BrokerName     string          `json:"brokerName"`
	OriginationUSD decimal.Decimal `json:"originationUsd"`
	SiteUSD        decimal.Decimal `json:"siteUsd"`
	DealUSD        decimal.Decimal `json:"dealUsd"`
	Total          decimal.Decimal `json:"total"`
	Paid           bool            `json:"paid"`
	PaidDate       *time.Time      `json:"paidDate"`
}

// PaymentRow is one installment on the Payment Dashboard.
type PaymentRow struct {
	PaymentID     uint                 `json:"paymentId"`
	DealID        uint                 `json:"dealId"`
	DealName      string               `json:"dealName"`
	Stage         string               `json:"stage"`
	Sequence      int                  `json:"sequence"`
	Installments  int                  `json:"installments"`
	Amount        decimal.Decimal      `json:"amount"`
	Received      bool                 `json:"received"`
	ReceivedDate  *time.Time           `json:"receivedDate"`
	EstimatedDate *time.Time           `json:"paymentDateEstimated"`
	Overdue       bool                 `json:"overdue"`
	InvoiceNumber string               `json:"invoiceNumber"`
	Brokers       []BrokerLine         `json:"brokers"`
	Referral      *referral.Info       `json:"referral,omitempty"`
	Summary       disbursement.Summary `json:"summary"`
	Status        disbursement.Status  `json:"status"`
	Warning       string               `json:"warning,omitempty"`
}

// PaymentDashboard is the response of GET /reports/payments.
type PaymentDashboard struct {
	Rows   []PaymentRow                `json:"rows"`
	Counts map[disbursement.Status]int `json:"counts"`
	Totals disbursement.Summary        `json:"totals"`
}

// StageRow is one pipeline stage of the Rob Report.
type StageRow struct {
	Stage          string          `json:"stage"`
	Deals          int             `json:"deals"`
	GCI            decimal.Decimal `json:"gci"`
	AGCI           decimal.Decimal `json:"agci"`
	House          decimal.Decimal `json:"house"`
	BrokerNet      decimal.Decimal `json:"brokerNet"`
	Received       decimal.Decimal `json:"received"`
	Pending        decimal.Decimal `json:"pending"`
	MissingSplits  int             `json:"missingSplits"`
	MissingDealIDs []uint          `json:"missingSplitDealIds"`
}

// RobReport is the response of GET /reports/rob.
type RobReport struct {
	Stages      []StageRow `json:"stages"`
	Totals      StageRow   `json:"totals"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// BrokerSummary is one broker's commission position across deals.
type BrokerSummary struct {
	BrokerID   uint            `json:"brokerId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Deals      int             `json:"deals"`
	PaidOut    decimal.Decimal `json:"paidOut"`
	Receivable decimal.Decimal `json:"receivable"`
	Projected  decimal.Decimal `json:"projected"`
}
