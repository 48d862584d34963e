package models

import "time"

// Sex codes stored on patients and encoded into identity codes
const (
	SexMale   = "M"
	SexFemale = "F"
)

// Patient represents the patients table
// One row per synthetic individual, immutable after creation
type Patient struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	IdentityCode string    `gorm:"size:11;not null;uniqueIndex" json:"identity_code"`
	BirthDate    time.Time `gorm:"not null" json:"birth_date"`
	Sex          string    `gorm:"size:1;not null" json:"sex"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}
