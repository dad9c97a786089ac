package referral

import (
	"errors"
	"testing"
	"time"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/shopspring/decimal"
)

func TestReferralPerPayment(t *testing.T) {
	n := 2
	deal := &models.Deal{
		NumberOfPayments:   &n,
		ReferralFeeUSD:     money.Null(decimal.NewFromInt(5000)),
		ReferralFeePercent: money.Null(decimal.NewFromInt(99)),
		ReferralPayee:      "Acme Realty",
	}
	paidAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	p := &models.Payment{Sequence: 1, Amount: decimal.NewFromInt(20000), ReferralFeePaid: true, ReferralFeePaidDate: &paidAt}

	info, err := ComputeReferralInfo(deal, p)
	if err != nil {
		t.Fatal(err)
	}
	if info == nil {
		t.Fatal("expected referral info")
	}
	if !info.Amount.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected 2500 got %s", info.Amount)
	}
	if !info.Paid || info.PaidDate == nil || !info.PaidDate.Equal(paidAt) {
		t.Fatalf("paid flags not carried: %+v", info)
	}
	if info.Payee != "Acme Realty" {
		t.Fatalf("unexpected payee %q", info.Payee)
	}
}

func TestNoReferral(t *testing.T) {
	n := 2
	for _, fee := range []decimal.NullDecimal{{}, money.Null(decimal.Zero), money.Null(decimal.NewFromInt(-10))} {
		deal := &models.Deal{NumberOfPayments: &n, ReferralFeeUSD: fee}
		info, err := ComputeReferralInfo(deal, &models.Payment{Sequence: 1})
		if err != nil || info != nil {
			t.Fatalf("expected nil info, got %+v %v", info, err)
		}
	}
}

func TestReferralRemainderOnLastInstallment(t *testing.T) {
	n := 3
	deal := &models.Deal{NumberOfPayments: &n, ReferralFeeUSD: money.Null(decimal.NewFromInt(1000))}
	sum := decimal.Zero
	for seq := 1; seq <= n; seq++ {
		info, err := ComputeReferralInfo(deal, &models.Payment{Sequence: seq})
		if err != nil {
			t.Fatal(err)
		}
		sum = sum.Add(info.Amount)
	}
	if !sum.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected 1000 got %s", sum)
	}
}

func TestReferralNeedsInstallmentCount(t *testing.T) {
	deal := &models.Deal{ReferralFeeUSD: money.Null(decimal.NewFromInt(1000))}
	if _, err := ComputeReferralInfo(deal, &models.Payment{Sequence: 1}); !errors.Is(err, money.ErrNumberOfPaymentsRequired) {
		t.Fatalf("expected ErrNumberOfPaymentsRequired got %v", err)
	}
}
