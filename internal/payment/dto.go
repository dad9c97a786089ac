package payment

import "time"

type GenerateRequest struct {
	FirstEstimatedDate *time.Time `json:"firstEstimatedDate"`
}

type ReceivedRequest struct {
	Received *bool      `json:"received" validate:"required"`
	Date     *time.Time `json:"receivedDate"`
}

type ReferralPaidRequest struct {
	Paid *bool      `json:"paid" validate:"required"`
	Date *time.Time `json:"paidDate"`
}

// EstimatedDateRequest clears the estimate when Date is null.
type EstimatedDateRequest struct {
	Date *time.Time `json:"paymentDateEstimated"`
}

type InvoiceRequest struct {
	InvoiceNumber string `json:"invoiceNumber" validate:"max=100"`
}
