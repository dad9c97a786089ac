package payment

import (
	"time"

	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

// Repository wraps payments.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy using a specific *gorm.DB (a tx, for instance).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) CreateInBatch(payments []models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.DB.Create(&payments).Error
}

func (r *Repository) CountByDeal(dealID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&models.Payment{}).Where("deal_id = ?", dealID).Count(&n).Error
	return n, err
}

// ListByDeal returns the deal's payments in sequence order with their splits and brokers.
func (r *Repository) ListByDeal(dealID uint) ([]models.Payment, error) {
	var list []models.Payment
	err := r.DB.
		Preload("Splits", func(db *gorm.DB) *gorm.DB { return db.Order("payment_splits.id ASC") }).
		Preload("Splits.Broker").
		Where("deal_id = ?", dealID).
		Order("sequence ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) FindByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

/* ============================= Partial updates ============================= */

func (r *Repository) updates(id uint, values map[string]interface{}) error {
	res := r.DB.Model(&models.Payment{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetReceived sets the received flag; clearing it clears the date.
func (r *Repository) SetReceived(id uint, received bool, at time.Time) error {
	values := map[string]interface{}{"received": received, "received_date": nil}
	if received {
		values["received_date"] = &at
	}
	return r.updates(id, values)
}

// SetReferralPaid sets the referral flag; clearing it clears the date.
func (r *Repository) SetReferralPaid(id uint, paid bool, at time.Time) error {
	values := map[string]interface{}{"referral_fee_paid": paid, "referral_fee_paid_date": nil}
	if paid {
		values["referral_fee_paid_date"] = &at
	}
	return r.updates(id, values)
}

func (r *Repository) SetEstimatedDate(id uint, at *time.Time) error {
	return r.updates(id, map[string]interface{}{"estimated_date": at})
}

func (r *Repository) SetInvoiceNumber(id uint, invoice string) error {
	return r.updates(id, map[string]interface{}{"invoice_number": invoice})
}
