package database

import (
	"fmt"

	"hospital-sim-reporting/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// readmissionPairsView joins consecutive admissions of a patient into
// readmission pairs. Recreated on every migrate so schema changes to
// admissions propagate; the underlying data is untouched.
const readmissionPairsView = `
CREATE VIEW readmission_pairs AS
SELECT
    a1.patient_id                                                   AS patient_id,
    p.identity_code                                                 AS identity_code,
    w1.name                                                         AS prior_ward,
    a1.diagnosis_code                                               AS prior_diagnosis_code,
    a1.discharge_date                                               AS prior_discharge_date,
    w2.name                                                         AS next_ward,
    a2.admission_date                                               AS next_admission_date,
    a2.diagnosis_code                                               AS next_diagnosis_code,
    (JULIANDAY(a1.admission_date) - JULIANDAY(p.birth_date)) / 365.25 AS age_at_prior,
    JULIANDAY(a2.admission_date) - JULIANDAY(a1.discharge_date)     AS day_gap
FROM admissions a1
JOIN admissions a2
    ON a1.patient_id = a2.patient_id
   AND a2.admission_date > a1.discharge_date
   AND a1.id < a2.id
JOIN patients p ON p.id = a1.patient_id
LEFT JOIN wards w1 ON w1.id = a1.ward_id
LEFT JOIN wards w2 ON w2.id = a2.ward_id
WHERE a1.discharge_date IS NOT NULL`

// Open opens (or creates) the single-file store at path and returns a
// GORM handle. The caller owns the file lifecycle; closing goes
// through the underlying sql.DB.
func Open(path string, debug bool) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logger.Error)
	if debug {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return db, nil
}

// Migrate creates the schema if it does not exist. Safe to run against
// an already populated store file.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Patient{},
		&models.Ward{},
		&models.Doctor{},
		&models.Admission{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	// Composite index backing the readmission self-join
	if err := db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_admissions_readmission ON admissions(patient_id, admission_date, discharge_date)`,
	).Error; err != nil {
		return fmt.Errorf("create readmission index: %w", err)
	}

	if err := db.Exec(`DROP VIEW IF EXISTS readmission_pairs`).Error; err != nil {
		return fmt.Errorf("drop readmission view: %w", err)
	}
	if err := db.Exec(readmissionPairsView).Error; err != nil {
		return fmt.Errorf("create readmission view: %w", err)
	}
	return nil
}

// Close closes the underlying database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
