package deal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/oculusrep/commission-api/internal/payment"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"github.com/oculusrep/commission-api/internal/utils/db/dbtest"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newRouter(db *gorm.DB) *mux.Router {
	sync := paymentsplit.NewSynchronizer(db, nil)
	sched := payment.NewService(payment.NewRepository(db), sync)
	h := NewHandler(NewRepository(db), StandardDefaults, sched, sync)
	r := mux.NewRouter()
	r.HandleFunc("/deals", h.List).Methods(http.MethodGet)
	r.HandleFunc("/deals", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/deals/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/deals/{id}", h.Update).Methods(http.MethodPut)
	r.HandleFunc("/deals/{id}", h.Delete).Methods(http.MethodDelete)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResp(t *testing.T, rec *httptest.ResponseRecorder) DealResponse {
	t.Helper()
	var resp DealResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestCreateAppliesDefaults(t *testing.T) {
	db := dbtest.Open(t)
	rec := do(t, newRouter(db), http.MethodPost, "/deals", `{"name":"Buckhead Pad","housePercent":30}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	d := decodeResp(t, rec).Deal
	if d.Stage != models.StageNegotiatingLOI {
		t.Errorf("stage = %q", d.Stage)
	}
	if !money.OrZero(d.HousePercent).Equal(decimal.NewFromInt(30)) {
		t.Errorf("house = %s, explicit value should win", d.HousePercent.Decimal)
	}
	if !money.OrZero(d.OriginationPercent).Equal(decimal.NewFromInt(50)) ||
		!money.OrZero(d.SitePercent).Equal(decimal.NewFromInt(25)) ||
		!money.OrZero(d.DealPercent).Equal(decimal.NewFromInt(25)) {
		t.Errorf("defaults not applied: %+v", d)
	}
}

func TestCreateValidation(t *testing.T) {
	db := dbtest.Open(t)
	r := newRouter(db)
	cases := []string{
		`{}`,
		`{"name":"x","stage":"Sold"}`,
		`{"name":"x","fee":"-1"}`,
		`{"name":"x","fee":"1000","referralFeeUsd":"2000"}`,
		`{"name":"x","originationPercent":60,"sitePercent":30,"dealPercent":20}`,
		`{"name":"x","housePercent":101}`,
	}
	for _, body := range cases {
		if rec := do(t, r, http.MethodPost, "/deals", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", body, rec.Code)
		}
	}
}

func TestCreateWithTermsGeneratesSchedule(t *testing.T) {
	db := dbtest.Open(t)
	rec := do(t, newRouter(db), http.MethodPost, "/deals", `{"name":"Midtown","fee":"10000","numberOfPayments":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResp(t, rec)
	if resp.Schedule == nil || !resp.Schedule.Created || len(resp.Schedule.Payments) != 3 {
		t.Fatalf("schedule = %+v", resp.Schedule)
	}
	last := resp.Schedule.Payments[2].Amount
	if !last.Equal(decimal.RequireFromString("3333.34")) {
		t.Errorf("last installment = %s", last)
	}
}

func TestUpdateLocksScheduleTerms(t *testing.T) {
	db := dbtest.Open(t)
	r := newRouter(db)
	rec := do(t, r, http.MethodPost, "/deals", `{"name":"Midtown","fee":"10000","numberOfPayments":2}`)
	id := decodeResp(t, rec).Deal.ID

	path := fmt.Sprintf("/deals/%d", id)
	if rec := do(t, r, http.MethodPut, path, `{"fee":"12000"}`); rec.Code != http.StatusConflict {
		t.Errorf("fee change: status %d, want 409", rec.Code)
	}
	if rec := do(t, r, http.MethodPut, path, `{"numberOfPayments":4}`); rec.Code != http.StatusConflict {
		t.Errorf("count change: status %d, want 409", rec.Code)
	}
	if rec := do(t, r, http.MethodPut, path, `{"fee":"10000","stage":"Booked"}`); rec.Code != http.StatusOK {
		t.Errorf("unchanged fee: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateTermsResyncsSplits(t *testing.T) {
	db := dbtest.Open(t)
	r := newRouter(db)
	b := models.Broker{Name: "Mike", Email: "mike@example.com", Password: "x"}
	if err := db.Create(&b).Error; err != nil {
		t.Fatal(err)
	}
	rec := do(t, r, http.MethodPost, "/deals", `{"name":"Midtown","housePercent":0}`)
	id := decodeResp(t, rec).Deal.ID
	full := money.Null(decimal.NewFromInt(100))
	if err := db.Create(&models.CommissionSplit{DealID: id, BrokerID: b.ID, OriginationPercent: full, SitePercent: full, DealPercent: full}).Error; err != nil {
		t.Fatal(err)
	}

	path := fmt.Sprintf("/deals/%d", id)
	rec = do(t, r, http.MethodPut, path, `{"fee":"10000","numberOfPayments":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if s := decodeResp(t, rec).Schedule; s == nil || s.Sync == nil || s.Sync.Created != 1 {
		t.Fatalf("schedule = %+v", s)
	}

	rec = do(t, r, http.MethodPut, path, `{"housePercent":40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeResp(t, rec)
	if resp.Sync == nil || resp.Sync.Updated != 1 {
		t.Fatalf("sync = %+v", resp.Sync)
	}
	var split models.PaymentSplit
	if err := db.First(&split).Error; err != nil {
		t.Fatal(err)
	}
	// base = 10000 - 4000 house; 50+25+25 of 6000 at 100% each.
	if !split.SplitBrokerTotal.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("broker total = %s, want 6000", split.SplitBrokerTotal)
	}
}

func TestListFilterAndDelete(t *testing.T) {
	db := dbtest.Open(t)
	r := newRouter(db)
	do(t, r, http.MethodPost, "/deals", `{"name":"A","stage":"Booked"}`)
	rec := do(t, r, http.MethodPost, "/deals", `{"name":"B","stage":"Lost"}`)
	lost := decodeResp(t, rec).Deal.ID

	rec = do(t, r, http.MethodGet, "/deals?stage=Booked", "")
	var list []models.Deal
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "A" {
		t.Fatalf("list = %+v", list)
	}
	if rec := do(t, r, http.MethodGet, "/deals?stage=Sold", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad stage: status %d", rec.Code)
	}

	path := fmt.Sprintf("/deals/%d", lost)
	if rec := do(t, r, http.MethodDelete, path, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted: status %d", rec.Code)
	}
	if rec := do(t, r, http.MethodDelete, path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d", rec.Code)
	}
}
