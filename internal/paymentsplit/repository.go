package paymentsplit

import (
	"time"

	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

// Repository wraps access to payment_splits and the rows the synchronizer reads.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy bound to db (a transaction or a context-scoped session).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

/* ============================== Reads ============================== */

func (r *Repository) FindDeal(dealID uint) (*models.Deal, error) {
	var d models.Deal
	if err := r.DB.First(&d, dealID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) ListTemplates(dealID uint) ([]models.CommissionSplit, error) {
	var list []models.CommissionSplit
	err := r.DB.Where("deal_id = ?", dealID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *Repository) ListPayments(dealID uint) ([]models.Payment, error) {
	var list []models.Payment
	err := r.DB.Where("deal_id = ?", dealID).Order("sequence ASC").Find(&list).Error
	return list, err
}

// ListByDeal returns every split of every payment of the deal.
func (r *Repository) ListByDeal(dealID uint) ([]models.PaymentSplit, error) {
	var list []models.PaymentSplit
	err := r.DB.
		Joins("JOIN payments ON payments.id = payment_splits.payment_id").
		Where("payments.deal_id = ?", dealID).
		Order("payment_splits.id ASC").
		Find(&list).Error
	return list, err
}

// ListByPayment returns the splits of one payment with their brokers.
func (r *Repository) ListByPayment(paymentID uint) ([]models.PaymentSplit, error) {
	var list []models.PaymentSplit
	err := r.DB.Preload("Broker").
		Where("payment_id = ?", paymentID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) FindByID(id uint) (*models.PaymentSplit, error) {
	var s models.PaymentSplit
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

/* ============================== Writes ============================== */

func (r *Repository) Create(s *models.PaymentSplit) error {
	return r.DB.Create(s).Error
}

// UpdateUnpaid rewrites the computed columns of an unpaid row. It reports how
// many rows changed: zero means the row was paid or removed in the meantime.
func (r *Repository) UpdateUnpaid(id uint, s models.PaymentSplit) (int64, error) {
	res := r.DB.Model(&models.PaymentSplit{}).
		Where("id = ? AND paid = ?", id, false).
		Updates(map[string]interface{}{
			"split_origination_percent": s.SplitOriginationPercent,
			"split_site_percent":        s.SplitSitePercent,
			"split_deal_percent":        s.SplitDealPercent,
			"split_origination_usd":     s.SplitOriginationUSD,
			"split_site_usd":            s.SplitSiteUSD,
			"split_deal_usd":            s.SplitDealUSD,
			"split_broker_total":        s.SplitBrokerTotal,
		})
	return res.RowsAffected, res.Error
}

// DeleteUnpaid removes a row only while it is still unpaid.
func (r *Repository) DeleteUnpaid(id uint) (int64, error) {
	res := r.DB.Where("id = ? AND paid = ?", id, false).Delete(&models.PaymentSplit{})
	return res.RowsAffected, res.Error
}

// SetPaid sets or clears the paid flag and date.
func (r *Repository) SetPaid(id uint, paid bool, at time.Time) error {
	updates := map[string]interface{}{"paid": paid, "paid_date": nil}
	if paid {
		updates["paid_date"] = &at
	}
	res := r.DB.Model(&models.PaymentSplit{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
