package repository

import (
	"path/filepath"
	"testing"
	"time"

	"hospital-sim-reporting/internal/database"
	"hospital-sim-reporting/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "store.db"), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedWard(t *testing.T, db *gorm.DB, name string) models.Ward {
	t.Helper()
	ward := models.Ward{Name: name}
	require.NoError(t, db.Create(&ward).Error)
	return ward
}

func seedPatient(t *testing.T, db *gorm.DB, code string, birth time.Time) models.Patient {
	t.Helper()
	patient := models.Patient{
		FirstName:    "Jan",
		LastName:     "Kowalski",
		IdentityCode: code,
		BirthDate:    birth,
		Sex:          models.SexMale,
	}
	require.NoError(t, db.Create(&patient).Error)
	return patient
}

func seedClosedAdmission(t *testing.T, db *gorm.DB, patientID, wardID uint, code string, admitted, discharged time.Time) models.Admission {
	t.Helper()
	mode := models.DischargeModeHome
	adm := models.Admission{
		PatientID:     patientID,
		WardID:        wardID,
		AdmissionDate: admitted,
		DischargeDate: &discharged,
		DischargeMode: &mode,
		AdmissionMode: models.AdmissionModeEmergency,
		DiagnosisCode: code,
	}
	require.NoError(t, db.Create(&adm).Error)
	return adm
}

func TestDischargeClosesEpisodeOnlyOnce(t *testing.T) {
	db := setupDB(t)
	ward := seedWard(t, db, "Cardiology")
	patient := seedPatient(t, db, "80010112349", date(1980, 1, 1))

	repo := NewAdmissionRepo(db)
	adm := models.Admission{
		PatientID:     patient.ID,
		WardID:        ward.ID,
		AdmissionDate: date(2024, 1, 1),
		AdmissionMode: models.AdmissionModeEmergency,
		DiagnosisCode: "I20",
	}
	require.NoError(t, repo.Create(&adm))

	first := date(2024, 1, 5)
	require.NoError(t, repo.Discharge(adm.ID, first, models.DischargeModeHome))

	// A second discharge attempt must not touch the closed episode
	require.NoError(t, repo.Discharge(adm.ID, date(2024, 1, 9), models.DischargeModeDeceased))

	var reloaded models.Admission
	require.NoError(t, db.First(&reloaded, adm.ID).Error)
	require.NotNil(t, reloaded.DischargeDate)
	assert.Equal(t, first, reloaded.DischargeDate.UTC())
	require.NotNil(t, reloaded.DischargeMode)
	assert.Equal(t, models.DischargeModeHome, *reloaded.DischargeMode)
}

func TestPatientIDsDischargedBeforeIsDistinct(t *testing.T) {
	db := setupDB(t)
	ward := seedWard(t, db, "Neurology")
	patient := seedPatient(t, db, "80010112349", date(1980, 1, 1))

	seedClosedAdmission(t, db, patient.ID, ward.ID, "G40", date(2024, 1, 1), date(2024, 1, 3))
	seedClosedAdmission(t, db, patient.ID, ward.ID, "I63", date(2024, 1, 5), date(2024, 1, 8))

	repo := NewAdmissionRepo(db)
	ids, err := repo.PatientIDsDischargedBefore(date(2024, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, []uint{patient.ID}, ids)

	// Discharges on the boundary date are not "before" it
	ids, err = repo.PatientIDsDischargedBefore(date(2024, 1, 3))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClosedStaysJoinsBirthDate(t *testing.T) {
	db := setupDB(t)
	ward := seedWard(t, db, "Pediatrics")
	other := seedWard(t, db, "Cardiology")
	patient := seedPatient(t, db, "15230712345", date(2015, 3, 7))

	seedClosedAdmission(t, db, patient.ID, ward.ID, "J06", date(2024, 3, 1), date(2024, 3, 4))
	seedClosedAdmission(t, db, patient.ID, other.ID, "I20", date(2024, 4, 1), date(2024, 4, 2))

	// Open admissions stay out of the closed-stay set
	repo := NewAdmissionRepo(db)
	require.NoError(t, repo.Create(&models.Admission{
		PatientID:     patient.ID,
		WardID:        ward.ID,
		AdmissionDate: date(2024, 5, 1),
		AdmissionMode: models.AdmissionModeEmergency,
		DiagnosisCode: "R50",
	}))

	stays, err := repo.ClosedStays(ward.ID)
	require.NoError(t, err)
	require.Len(t, stays, 1)
	assert.Equal(t, "J06", stays[0].DiagnosisCode)
	assert.Equal(t, date(2015, 3, 7), stays[0].BirthDate.UTC())
}

func TestReadmissionPairsWindow(t *testing.T) {
	db := setupDB(t)
	ward := seedWard(t, db, "Cardiology")

	// 9-day gap: included
	quick := seedPatient(t, db, "80010112349", date(1980, 1, 1))
	seedClosedAdmission(t, db, quick.ID, ward.ID, "I21", date(2023, 12, 25), date(2024, 1, 1))
	repo := NewAdmissionRepo(db)
	require.NoError(t, repo.Create(&models.Admission{
		PatientID:     quick.ID,
		WardID:        ward.ID,
		AdmissionDate: date(2024, 1, 10),
		AdmissionMode: models.AdmissionModeEmergencyReturn,
		DiagnosisCode: "I48",
	}))

	// 20-day gap: excluded
	slow := seedPatient(t, db, "75060798765", date(1975, 6, 7))
	seedClosedAdmission(t, db, slow.ID, ward.ID, "I50", date(2023, 12, 28), date(2024, 1, 1))
	require.NoError(t, repo.Create(&models.Admission{
		PatientID:     slow.ID,
		WardID:        ward.ID,
		AdmissionDate: date(2024, 1, 21),
		AdmissionMode: models.AdmissionModeEmergencyReturn,
		DiagnosisCode: "I10",
	}))

	pairs, err := repo.ReadmissionPairs("Cardiology", 14)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, quick.ID, pairs[0].PatientID)
	assert.Equal(t, "I48", pairs[0].NextDiagnosisCode)
	assert.InDelta(t, 9, pairs[0].DayGap, 0.01)
	// Age at the prior admission, in fractional years
	assert.InDelta(t, 43.98, pairs[0].AgeAtPrior, 0.05)
}
