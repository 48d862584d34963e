package repository

import (
	"hospital-sim-reporting/internal/models"

	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Doctor{}).Count(&count).Error
	return count, err
}

func (r *DoctorRepository) Create(doctor *models.Doctor) error {
	return r.db.Create(doctor).Error
}

// ListByWard returns the doctors assigned to a ward
func (r *DoctorRepository) ListByWard(wardID uint) ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := r.db.Where("ward_id = ?", wardID).Order("id ASC").Find(&doctors).Error
	return doctors, err
}
