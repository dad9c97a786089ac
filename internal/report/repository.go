package report

import (
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

func (r *Repository) withPayments(q *gorm.DB) *gorm.DB {
	return q.
		Preload("CommissionSplits").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.sequence ASC") }).
		Preload("Payments.Splits", func(db *gorm.DB) *gorm.DB { return db.Order("payment_splits.id ASC") }).
		Preload("Payments.Splits.Broker")
}

// DealsWithPayments loads every deal that has at least one payment.
func (r *Repository) DealsWithPayments() ([]models.Deal, error) {
	var deals []models.Deal
	err := r.withPayments(r.DB).
		Where("EXISTS (SELECT 1 FROM payments WHERE payments.deal_id = deals.id)").
		Order("deals.name ASC, deals.id ASC").
		Find(&deals).Error
	return deals, err
}

// PipelineDeals loads all deals outside the Lost stage.
func (r *Repository) PipelineDeals() ([]models.Deal, error) {
	var deals []models.Deal
	err := r.withPayments(r.DB).
		Where("stage <> ?", models.StageLost).
		Order("deals.id ASC").
		Find(&deals).Error
	return deals, err
}

// DealsForBroker loads the deals on which the broker holds a template.
func (r *Repository) DealsForBroker(brokerID uint) ([]models.Deal, error) {
	var deals []models.Deal
	err := r.withPayments(r.DB).
		Where("deals.id IN (?)", r.DB.Model(&models.CommissionSplit{}).Select("deal_id").Where("broker_id = ?", brokerID)).
		Order("deals.id ASC").
		Find(&deals).Error
	return deals, err
}

func (r *Repository) FindBroker(id uint) (*models.Broker, error) {
	var b models.Broker
	if err := r.DB.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}
