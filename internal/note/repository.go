package note

import (
	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Create(db *gorm.DB, n *models.Note) error
	ListByDeal(db *gorm.DB, dealID uint) ([]models.Note, error)
	FindByID(db *gorm.DB, id uint) (*models.Note, error)
	UpdateText(db *gorm.DB, id uint, text string) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, n *models.Note) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) ListByDeal(db *gorm.DB, dealID uint) ([]models.Note, error) {
	var notes []models.Note
	err := db.Where("deal_id = ?", dealID).Order("created_at DESC, id DESC").Find(&notes).Error
	return notes, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Note, error) {
	var n models.Note
	if err := db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repositoryImpl) UpdateText(db *gorm.DB, id uint, text string) error {
	return db.Model(&models.Note{}).Where("id = ?", id).Update("text", text).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&models.Note{}, id).Error
}

// AddSystem records an entry written by the service itself.
func AddSystem(db *gorm.DB, dealID uint, text string) error {
	return db.Create(&models.Note{DealID: dealID, Text: text, IsSystem: true}).Error
}
