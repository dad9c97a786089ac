package paymentsplit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/oculusrep/commission-api/internal/note"
	"github.com/oculusrep/commission-api/internal/notification"
	"gorm.io/gorm"
)

// ErrDealNotFound is returned when syncing a deal that does not exist.
var ErrDealNotFound = errors.New("deal not found")

// ErrNumberOfPaymentsRequired is returned when the deal has payments but no installment count.
var ErrNumberOfPaymentsRequired = money.ErrNumberOfPaymentsRequired

// errPaidMeanwhile marks a guarded write that matched no unpaid row.
var errPaidMeanwhile = errors.New("split was paid or removed during sync")

// Failure is one op that could not be applied.
type Failure struct {
	PaymentID uint   `json:"paymentId"`
	BrokerID  uint   `json:"brokerId"`
	SplitID   uint   `json:"splitId,omitempty"`
	Op        OpKind `json:"op"`
	Error     string `json:"error"`
}

// SyncReport describes one synchronizer run.
type SyncReport struct {
	RunID      string    `json:"runId"`
	DealID     uint      `json:"dealId"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Deleted    int       `json:"deleted"`
	Preserved  int       `json:"preserved"`
	Failures   []Failure `json:"failures"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// OK reports whether every op was applied.
func (r *SyncReport) OK() bool { return len(r.Failures) == 0 }

// Synchronizer keeps payment splits in line with commission split templates.
type Synchronizer struct {
	Repo     *Repository
	Notifier notification.Notifier
	Now      func() time.Time
}

func NewSynchronizer(db *gorm.DB, n notification.Notifier) *Synchronizer {
	if n == nil {
		n = notification.Nop{}
	}
	return &Synchronizer{Repo: NewRepository(db), Notifier: n, Now: time.Now}
}

// Sync loads the deal, plans, and applies every op as its own write. A failed
// op is recorded in the report and the rest still run; the returned error is
// reserved for failures that prevent planning.
func (s *Synchronizer) Sync(ctx context.Context, dealID uint) (*SyncReport, error) {
	repo := s.Repo.WithDB(s.Repo.DB.WithContext(ctx))
	report := &SyncReport{RunID: uuid.NewString(), DealID: dealID, StartedAt: s.Now(), Failures: []Failure{}}

	deal, err := repo.FindDeal(dealID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDealNotFound
	}
	if err != nil {
		return nil, err
	}
	templates, err := repo.ListTemplates(dealID)
	if err != nil {
		return nil, err
	}
	payments, err := repo.ListPayments(dealID)
	if err != nil {
		return nil, err
	}
	existing, err := repo.ListByDeal(dealID)
	if err != nil {
		return nil, err
	}

	ops, err := Plan(deal, templates, payments, existing)
	if err != nil {
		return nil, err
	}

	for _, op := range ops {
		if op.Kind == OpPreserve {
			report.Preserved++
			continue
		}
		err := apply(repo, op)
		switch {
		case err == nil:
			count(report, op.Kind)
		case errors.Is(err, errPaidMeanwhile):
			report.Preserved++
		default:
			report.Failures = append(report.Failures, Failure{
				PaymentID: op.PaymentID,
				BrokerID:  op.BrokerID,
				SplitID:   op.SplitID,
				Op:        op.Kind,
				Error:     err.Error(),
			})
		}
	}
	report.FinishedAt = s.Now()

	log.Printf("[paymentsplit] sync run=%s deal=%d created=%d updated=%d deleted=%d preserved=%d failed=%d",
		report.RunID, dealID, report.Created, report.Updated, report.Deleted, report.Preserved, len(report.Failures))
	if !report.OK() {
		s.reportFailures(ctx, report)
	}
	return report, nil
}

func apply(repo *Repository, op Op) error {
	switch op.Kind {
	case OpCreate:
		row := op.Split
		return repo.Create(&row)
	case OpUpdate:
		n, err := repo.UpdateUnpaid(op.SplitID, op.Split)
		if err == nil && n == 0 {
			return errPaidMeanwhile
		}
		return err
	case OpDelete:
		n, err := repo.DeleteUnpaid(op.SplitID)
		if err == nil && n == 0 {
			return errPaidMeanwhile
		}
		return err
	}
	return fmt.Errorf("unknown op %q", op.Kind)
}

func count(r *SyncReport, k OpKind) {
	switch k {
	case OpCreate:
		r.Created++
	case OpUpdate:
		r.Updated++
	case OpDelete:
		r.Deleted++
	}
}

func (s *Synchronizer) reportFailures(ctx context.Context, r *SyncReport) {
	var b strings.Builder
	fmt.Fprintf(&b, "Payment split sync %s: %d change(s) failed.", r.RunID, len(r.Failures))
	for _, f := range r.Failures {
		log.Printf("[paymentsplit] run=%s %s payment=%d broker=%d: %s", r.RunID, f.Op, f.PaymentID, f.BrokerID, f.Error)
		fmt.Fprintf(&b, " %s payment %d broker %d;", f.Op, f.PaymentID, f.BrokerID)
	}
	if err := note.AddSystem(s.Repo.DB.WithContext(ctx), r.DealID, b.String()); err != nil {
		log.Printf("[paymentsplit] run=%s could not write note: %v", r.RunID, err)
	}
	alert := notification.Alert{
		Kind:    notification.KindSyncFailure,
		Message: b.String(),
		DealID:  r.DealID,
		Details: map[string]any{"runId": r.RunID, "failures": r.Failures},
	}
	if err := s.Notifier.Notify(ctx, alert); err != nil {
		log.Printf("[paymentsplit] run=%s alert not delivered: %v", r.RunID, err)
	}
}
