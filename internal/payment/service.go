package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/paymentsplit"
	"gorm.io/gorm"
)

// ErrDealNotFound is returned for unknown or deleted deals.
var ErrDealNotFound = errors.New("deal not found")

// Syncer re-projects a deal's templates onto its payment splits.
type Syncer interface {
	Sync(ctx context.Context, dealID uint) (*paymentsplit.SyncReport, error)
}

// Service creates payment schedules.
type Service struct {
	Repo *Repository
	Sync Syncer
}

func NewService(repo *Repository, sync Syncer) *Service {
	return &Service{Repo: repo, Sync: sync}
}

// ScheduleResult is what EnsureSchedule did.
type ScheduleResult struct {
	Created   bool                     `json:"created"`
	Payments  []models.Payment         `json:"payments"`
	Sync      *paymentsplit.SyncReport `json:"sync,omitempty"`
	SyncError string                   `json:"syncError,omitempty"`
}

// EnsureSchedule creates the deal's payments when it has none, in one
// transaction, then runs the split synchronizer. Calling it again is a no-op.
func (s *Service) EnsureSchedule(ctx context.Context, dealID uint, firstEstimate *time.Time) (*ScheduleResult, error) {
	res := &ScheduleResult{}
	err := s.Repo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deal models.Deal
		if err := tx.First(&deal, dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDealNotFound
			}
			return err
		}
		repo := s.Repo.WithDB(tx)
		existing, err := repo.CountByDeal(dealID)
		if err != nil {
			return err
		}
		payments, err := GeneratePayments(&deal, int(existing), firstEstimate)
		if err != nil {
			return err
		}
		if len(payments) == 0 {
			return nil
		}
		if err := repo.CreateInBatch(payments); err != nil {
			return err
		}
		res.Created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Created && s.Sync != nil {
		report, err := s.Sync.Sync(ctx, dealID)
		if err != nil {
			log.Printf("[payment] sync after schedule deal=%d: %v", dealID, err)
			res.SyncError = err.Error()
		}
		res.Sync = report
	}

	res.Payments, err = s.Repo.WithDB(s.Repo.DB.WithContext(ctx)).ListByDeal(dealID)
	if err != nil {
		return nil, err
	}
	if res.Created {
		log.Printf("[payment] created %d payments for deal=%d", len(res.Payments), dealID)
	}
	return res, nil
}
