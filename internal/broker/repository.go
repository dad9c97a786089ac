package broker

import (
	"strings"

	"github.com/oculusrep/commission-api/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*models.Broker, error)
	FindByID(db *gorm.DB, id uint) (*models.Broker, error)
	List(db *gorm.DB) ([]models.Broker, error)
	Save(db *gorm.DB, b *models.Broker) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Broker, error) {
	var b models.Broker
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Broker, error) {
	var b models.Broker
	if err := db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) List(db *gorm.DB) ([]models.Broker, error) {
	var list []models.Broker
	err := db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Save(db *gorm.DB, b *models.Broker) error {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	return db.Save(b).Error
}

// Delete deactivates the broker rather than removing it, since payment splits
// keep pointing at it.
func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	res := db.Model(&models.Broker{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
