package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"github.com/oculusrep/commission-api/internal/utils/db/dbtest"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedDeal(t *testing.T, db *gorm.DB, fee int64, n int, referral int64) models.Deal {
	t.Helper()
	b := models.Broker{Name: "Rob", Email: fmt.Sprintf("%s@example.com", strings.ReplaceAll(t.Name(), "/", "_")), Password: "x"}
	if err := db.Create(&b).Error; err != nil {
		t.Fatal(err)
	}
	d := models.Deal{
		Name:               "Midtown Lease",
		Fee:                money.Null(decimal.NewFromInt(fee)),
		NumberOfPayments:   &n,
		OriginationPercent: money.Null(decimal.NewFromInt(50)),
		SitePercent:        money.Null(decimal.NewFromInt(25)),
		DealPercent:        money.Null(decimal.NewFromInt(25)),
	}
	if referral > 0 {
		d.ReferralFeeUSD = money.Null(decimal.NewFromInt(referral))
	}
	if err := db.Create(&d).Error; err != nil {
		t.Fatal(err)
	}
	full := money.Null(decimal.NewFromInt(100))
	tmpl := models.CommissionSplit{DealID: d.ID, BrokerID: b.ID, OriginationPercent: full, SitePercent: full, DealPercent: full}
	if err := db.Create(&tmpl).Error; err != nil {
		t.Fatal(err)
	}
	return d
}

func newService(db *gorm.DB) *Service {
	return NewService(NewRepository(db), paymentsplit.NewSynchronizer(db, nil))
}

func TestEnsureScheduleCreatesAndSyncs(t *testing.T) {
	db := dbtest.Open(t)
	d := seedDeal(t, db, 100000, 3, 0)

	res, err := newService(db).EnsureSchedule(context.Background(), d.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Created || len(res.Payments) != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Sync == nil || res.Sync.Created != 3 {
		t.Fatalf("expected 3 splits created, got %+v", res.Sync)
	}
	for _, p := range res.Payments {
		if len(p.Splits) != 1 || !p.Splits[0].SplitBrokerTotal.Equal(p.Amount) {
			t.Fatalf("payment %d: unexpected splits %+v", p.Sequence, p.Splits)
		}
	}
}

func TestEnsureScheduleIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	d := seedDeal(t, db, 5000, 2, 0)
	svc := newService(db)
	if _, err := svc.EnsureSchedule(context.Background(), d.ID, nil); err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&models.Payment{}).Where("deal_id = ? AND sequence = 1", d.ID).Update("received", true).Error; err != nil {
		t.Fatal(err)
	}

	res, err := svc.EnsureSchedule(context.Background(), d.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created || len(res.Payments) != 2 || !res.Payments[0].Received {
		t.Fatalf("second call must not rebuild the schedule: %+v", res)
	}
	var n int64
	db.Model(&models.Payment{}).Where("deal_id = ?", d.ID).Count(&n)
	if n != 2 {
		t.Fatalf("expected 2 payments got %d", n)
	}
}

func TestEnsureScheduleErrors(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(db)
	if _, err := svc.EnsureSchedule(context.Background(), 42, nil); !errors.Is(err, ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound got %v", err)
	}
	d := seedDeal(t, db, 5000, 0, 0)
	if _, err := svc.EnsureSchedule(context.Background(), d.ID, nil); !errors.Is(err, ErrNumberOfPaymentsRequired) {
		t.Fatalf("expected ErrNumberOfPaymentsRequired got %v", err)
	}
}

func TestGenerateHandler(t *testing.T) {
	db := dbtest.Open(t)
	d := seedDeal(t, db, 40000, 2, 5000)
	h := NewHandler(newService(db))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"firstEstimatedDate":"2025-01-31T00:00:00Z"}`))
	req = mux.SetURLVars(req, map[string]string{"id": fmt.Sprint(d.ID)})
	rr := httptest.NewRecorder()
	h.Generate(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var res ScheduleResult
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	// 20000 - 2500 referral installment, no house cut
	if got := res.Payments[0].Splits[0].SplitBrokerTotal; !got.Equal(decimal.NewFromInt(17500)) {
		t.Fatalf("expected 17500 got %s", got)
	}
	if res.Payments[1].EstimatedDate == nil || res.Payments[1].EstimatedDate.Month() != 2 {
		t.Fatalf("expected February estimate got %v", res.Payments[1].EstimatedDate)
	}

	req = mux.SetURLVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": fmt.Sprint(d.ID)})
	rr = httptest.NewRecorder()
	h.Generate(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("repeat generate should be 200, got %d", rr.Code)
	}
}

func TestPatchHandlers(t *testing.T) {
	db := dbtest.Open(t)
	d := seedDeal(t, db, 1000, 1, 0)
	svc := newService(db)
	res, err := svc.EnsureSchedule(context.Background(), d.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	pid := fmt.Sprint(res.Payments[0].ID)
	h := NewHandler(svc)

	call := func(fn http.HandlerFunc, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"pid": pid})
		rr := httptest.NewRecorder()
		fn(rr, req)
		return rr
	}

	rr := call(h.MarkReceived, `{"received":true,"receivedDate":"2025-03-01T00:00:00Z"}`)
	var p models.Payment
	_ = json.NewDecoder(rr.Body).Decode(&p)
	if rr.Code != http.StatusOK || !p.Received || p.ReceivedDate == nil {
		t.Fatalf("mark received failed: %d %+v", rr.Code, p)
	}

	rr = call(h.MarkReceived, `{"received":false}`)
	p = models.Payment{}
	_ = json.NewDecoder(rr.Body).Decode(&p)
	if p.Received || p.ReceivedDate != nil {
		t.Fatalf("unreceived should clear the date: %+v", p)
	}

	if rr := call(h.MarkReferralPaid, `{"paid":true}`); rr.Code != http.StatusConflict {
		t.Fatalf("referral on a deal without referral fee should be 409, got %d", rr.Code)
	}

	rr = call(h.SetInvoice, `{"invoiceNumber":"INV-1001"}`)
	p = models.Payment{}
	_ = json.NewDecoder(rr.Body).Decode(&p)
	if p.InvoiceNumber != "INV-1001" {
		t.Fatalf("invoice not saved: %+v", p)
	}

	rr = call(h.SetEstimatedDate, `{"paymentDateEstimated":"2025-06-30T00:00:00Z"}`)
	p = models.Payment{}
	_ = json.NewDecoder(rr.Body).Decode(&p)
	if p.EstimatedDate == nil {
		t.Fatalf("estimate not saved: %+v", p)
	}
}

func TestPatchHidesStorageErrors(t *testing.T) {
	db := dbtest.Open(t)
	d := seedDeal(t, db, 1000, 1, 0)
	svc := newService(db)
	res, err := svc.EnsureSchedule(context.Background(), d.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Callback().Update().Before("gorm:update").Register("test:fail_update", func(tx *gorm.DB) {
		tx.AddError(errors.New(`pq: relation "payments_secret" does not exist`))
	})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"invoiceNumber":"INV-1002"}`))
	req = mux.SetURLVars(req, map[string]string{"pid": fmt.Sprint(res.Payments[0].ID)})
	rr := httptest.NewRecorder()
	NewHandler(svc).SetInvoice(rr, req)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rr.Code)
	}
	if body := rr.Body.String(); strings.Contains(body, "payments_secret") || !strings.Contains(body, "error updating payment") {
		t.Fatalf("unexpected body %q", body)
	}
}
