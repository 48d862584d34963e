package repository

import (
	"hospital-sim-reporting/internal/models"

	"gorm.io/gorm"
)

type WardRepository struct {
	db *gorm.DB
}

func NewWardRepo(db *gorm.DB) *WardRepository {
	return &WardRepository{db: db}
}

// SeedIfEmpty inserts the reference ward list when the table has no
// rows. Idempotent across runs.
func (r *WardRepository) SeedIfEmpty(names []string) error {
	var count int64
	if err := r.db.Model(&models.Ward{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range names {
		if err := r.db.Create(&models.Ward{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

// List returns all wards ordered by id
func (r *WardRepository) List() ([]models.Ward, error) {
	var wards []models.Ward
	err := r.db.Order("id ASC").Find(&wards).Error
	return wards, err
}

// FindByName retrieves a ward by its unique name
func (r *WardRepository) FindByName(name string) (*models.Ward, error) {
	var ward models.Ward
	err := r.db.Where("name = ?", name).First(&ward).Error
	if err != nil {
		return nil, err
	}
	return &ward, nil
}
