package repository

import (
	"time"

	"hospital-sim-reporting/internal/models"

	"gorm.io/gorm"
)

type AdmissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepo(db *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

func (r *AdmissionRepository) Create(admission *models.Admission) error {
	return r.db.Create(admission).Error
}

// ListOpen returns every admission without a discharge date
func (r *AdmissionRepository) ListOpen() ([]models.Admission, error) {
	var admissions []models.Admission
	err := r.db.Where("discharge_date IS NULL").Order("id ASC").Find(&admissions).Error
	return admissions, err
}

// Discharge closes an open admission. The discharge_date IS NULL guard
// makes a second discharge of the same episode a no-op.
func (r *AdmissionRepository) Discharge(id uint, date time.Time, mode string) error {
	return r.db.Model(&models.Admission{}).
		Where("id = ? AND discharge_date IS NULL", id).
		Updates(map[string]interface{}{
			"discharge_date": date,
			"discharge_mode": mode,
		}).Error
}

// PatientIDsDischargedBefore returns the distinct patients with any
// admission discharged strictly before date. Candidates for bounce-back
// readmissions; deliberately does not exclude patients who are
// currently admitted elsewhere.
func (r *AdmissionRepository) PatientIDsDischargedBefore(date time.Time) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Admission{}).
		Distinct("patient_id").
		Where("discharge_date < ?", date).
		Order("patient_id ASC").
		Pluck("patient_id", &ids).Error
	return ids, err
}

// ClosedStays returns the ward's closed admissions joined with the
// patient birth date, the input of the prolonged-stay analysis
func (r *AdmissionRepository) ClosedStays(wardID uint) ([]models.ClosedStay, error) {
	var stays []models.ClosedStay
	err := r.db.Table("admissions").
		Select("admissions.diagnosis_code, admissions.admission_date, admissions.discharge_date, patients.birth_date").
		Joins("JOIN patients ON patients.id = admissions.patient_id").
		Where("admissions.ward_id = ? AND admissions.discharge_date IS NOT NULL", wardID).
		Order("admissions.id ASC").
		Scan(&stays).Error
	return stays, err
}

// ReadmissionPairs queries the readmission_pairs view for pairs whose
// prior admission was in the named ward and whose gap is at most
// maxGapDays.
func (r *AdmissionRepository) ReadmissionPairs(priorWard string, maxGapDays float64) ([]models.ReadmissionPair, error) {
	var pairs []models.ReadmissionPair
	err := r.db.Where("prior_ward = ? AND day_gap <= ?", priorWard, maxGapDays).
		Find(&pairs).Error
	return pairs, err
}

func (r *AdmissionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Admission{}).Count(&count).Error
	return count, err
}
