package deal

import (
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

// Repository wraps deals.
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

func (r *Repository) Create(d *models.Deal) error {
	return r.DB.Create(d).Error
}

func (r *Repository) Save(d *models.Deal) error {
	return r.DB.Omit("CommissionSplits", "Payments", "Notes").Save(d).Error
}

// List returns deals, optionally filtered by stage, newest first.
func (r *Repository) List(stage string) ([]models.Deal, error) {
	var list []models.Deal
	q := r.DB.Order("created_at DESC, id DESC")
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *Repository) FindByID(id uint) (*models.Deal, error) {
	var d models.Deal
	if err := r.DB.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDetailed loads the deal with its templates and payments.
func (r *Repository) FindDetailed(id uint) (*models.Deal, error) {
	var d models.Deal
	err := r.DB.
		Preload("CommissionSplits", func(db *gorm.DB) *gorm.DB { return db.Order("commission_splits.id ASC") }).
		Preload("CommissionSplits.Broker").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.sequence ASC") }).
		Preload("Payments.Splits").
		First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) CountPayments(dealID uint) (int64, error) {
	var n int64
	err := r.DB.Model(&models.Payment{}).Where("deal_id = ?", dealID).Count(&n).Error
	return n, err
}

func (r *Repository) Delete(id uint) error {
	res := r.DB.Delete(&models.Deal{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
