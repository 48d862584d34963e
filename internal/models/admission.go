package models

import "time"

// Admission modes set by the simulation engine
const (
	AdmissionModeEmergency       = "emergency"
	AdmissionModeEmergencyReturn = "emergency-return"
)

// Discharge modes
const (
	DischargeModeHome     = "home"
	DischargeModeOther    = "other"
	DischargeModeDeceased = "deceased"
)

// DischargeModes lists the valid discharge modes for random selection
var DischargeModes = []string{DischargeModeHome, DischargeModeOther, DischargeModeDeceased}

// Admission represents the admissions table
// One row per hospitalization episode; a NULL discharge date means
// the patient is currently admitted. Rows are mutated exactly once,
// to close the episode, and never deleted.
type Admission struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PatientID     uint       `gorm:"not null;index" json:"patient_id"`
	WardID        uint       `gorm:"not null;index" json:"ward_id"`
	DoctorID      *uint      `gorm:"index" json:"doctor_id"`
	AdmissionDate time.Time  `gorm:"not null;index" json:"admission_date"`
	DischargeDate *time.Time `gorm:"index" json:"discharge_date"`
	AdmissionMode string     `gorm:"size:50;not null" json:"admission_mode"`
	DischargeMode *string    `gorm:"size:20" json:"discharge_mode"`
	DiagnosisCode string     `gorm:"size:10;not null;index" json:"diagnosis_code"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Ward    Ward    `gorm:"foreignKey:WardID" json:"ward,omitempty"`
	Doctor  *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// TableName specifies the table name for Admission model
func (Admission) TableName() string {
	return "admissions"
}

// ClosedStay is a closed admission joined with the patient's birth date,
// the input row for the prolonged-stay analysis
type ClosedStay struct {
	DiagnosisCode string    `json:"diagnosis_code"`
	AdmissionDate time.Time `json:"admission_date"`
	DischargeDate time.Time `json:"discharge_date"`
	BirthDate     time.Time `json:"birth_date"`
}
