package models

// Ward represents the wards table
// Static reference data, seeded once at initialization
type Ward struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for Ward model
func (Ward) TableName() string {
	return "wards"
}
