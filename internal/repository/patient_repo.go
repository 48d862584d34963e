package repository

import (
	"errors"

	"hospital-sim-reporting/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(patient *models.Patient) error {
	return r.db.Create(patient).Error
}

// FindByIdentityCode looks a patient up by identity code. Returns
// (nil, nil) when no patient carries the code; the simulation uses
// this to dedupe colliding identities within a day.
func (r *PatientRepository) FindByIdentityCode(code string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.Where("identity_code = ?", code).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *PatientRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Patient{}).Count(&count).Error
	return count, err
}
