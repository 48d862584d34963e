package models

// Doctor represents the doctors table
// Static reference data, seeded once at initialization
type Doctor struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`
	WardID    uint   `gorm:"not null;index" json:"ward_id"`

	// Relationships
	Ward Ward `gorm:"foreignKey:WardID" json:"ward,omitempty"`
}

// TableName specifies the table name for Doctor model
func (Doctor) TableName() string {
	return "doctors"
}
