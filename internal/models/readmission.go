package models

import "time"

// ReadmissionPair represents one row of the readmission_pairs view:
// two admissions of the same patient where the second begins strictly
// after the first's discharge. The view is recomputed on every read,
// nothing is materialized.
type ReadmissionPair struct {
	PatientID          uint      `gorm:"column:patient_id" json:"patient_id"`
	IdentityCode       string    `gorm:"column:identity_code" json:"identity_code"`
	PriorWard          string    `gorm:"column:prior_ward" json:"prior_ward"`
	PriorDiagnosisCode string    `gorm:"column:prior_diagnosis_code" json:"prior_diagnosis_code"`
	PriorDischargeDate time.Time `gorm:"column:prior_discharge_date" json:"prior_discharge_date"`
	NextWard           string    `gorm:"column:next_ward" json:"next_ward"`
	NextAdmissionDate  time.Time `gorm:"column:next_admission_date" json:"next_admission_date"`
	NextDiagnosisCode  string    `gorm:"column:next_diagnosis_code" json:"next_diagnosis_code"`
	AgeAtPrior         float64   `gorm:"column:age_at_prior" json:"age_at_prior"`
	DayGap             float64   `gorm:"column:day_gap" json:"day_gap"`
}

// TableName maps the model onto the readmission_pairs view
func (ReadmissionPair) TableName() string {
	return "readmission_pairs"
}
