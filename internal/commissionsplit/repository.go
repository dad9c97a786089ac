package commissionsplit

import (
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

// Repository wraps commission_splits.
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

func (r *Repository) ListByDeal(dealID uint) ([]models.CommissionSplit, error) {
	var list []models.CommissionSplit
	err := r.DB.Preload("Broker").Where("deal_id = ?", dealID).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *Repository) FindByID(id uint) (*models.CommissionSplit, error) {
	var s models.CommissionSplit
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) ExistsForBroker(dealID, brokerID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&models.CommissionSplit{}).
		Where("deal_id = ? AND broker_id = ?", dealID, brokerID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repository) Create(s *models.CommissionSplit) error {
	return r.DB.Create(s).Error
}

// Update saves the percentages only; deal and broker never change.
func (r *Repository) Update(s *models.CommissionSplit) error {
	return r.DB.Model(s).Select("origination_percent", "site_percent", "deal_percent").Updates(s).Error
}

func (r *Repository) Delete(id uint) error {
	res := r.DB.Delete(&models.CommissionSplit{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
