package service

import (
	"path/filepath"
	"testing"
	"time"

	"hospital-sim-reporting/internal/database"
	"hospital-sim-reporting/internal/models"
	"hospital-sim-reporting/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func newSim(db *gorm.DB) *SimulationService {
	return NewSimulationService(db, models.DefaultCatalog(), 42, zap.NewNop())
}

func TestEnsureReferenceDataSeedsOnce(t *testing.T) {
	db := setupDB(t)
	sim := newSim(db)

	require.NoError(t, sim.EnsureReferenceData())

	wards, err := repository.NewWardRepo(db).List()
	require.NoError(t, err)
	assert.Len(t, wards, 9)

	doctorCount, err := repository.NewDoctorRepo(db).Count()
	require.NoError(t, err)
	assert.EqualValues(t, 20, doctorCount)

	// Second call against the populated store must not duplicate
	require.NoError(t, sim.EnsureReferenceData())
	wards, err = repository.NewWardRepo(db).List()
	require.NoError(t, err)
	assert.Len(t, wards, 9)
	doctorCount, err = repository.NewDoctorRepo(db).Count()
	require.NoError(t, err)
	assert.EqualValues(t, 20, doctorCount)
}

func TestAdvanceDayCreatesNewAdmissions(t *testing.T) {
	db := setupDB(t)
	sim := newSim(db)
	require.NoError(t, sim.EnsureReferenceData())

	day := date(2024, 1, 1)
	require.NoError(t, sim.AdvanceDay(day))

	var admissions []models.Admission
	require.NoError(t, db.Find(&admissions).Error)
	require.GreaterOrEqual(t, len(admissions), 5)
	require.LessOrEqual(t, len(admissions), 10)

	catalog := models.DefaultCatalog()
	for _, adm := range admissions {
		assert.Equal(t, models.AdmissionModeEmergency, adm.AdmissionMode)
		assert.Equal(t, day, adm.AdmissionDate.UTC())
		assert.Nil(t, adm.DischargeDate)

		var ward models.Ward
		require.NoError(t, db.First(&ward, adm.WardID).Error)
		assert.Contains(t, catalog.Codes(ward.Name), adm.DiagnosisCode)
	}
}

func TestAdvanceDaySameDateTwiceDuplicates(t *testing.T) {
	db := setupDB(t)
	sim := newSim(db)
	require.NoError(t, sim.EnsureReferenceData())

	repo := repository.NewAdmissionRepo(db)
	day := date(2024, 1, 1)

	require.NoError(t, sim.AdvanceDay(day))
	first, err := repo.Count()
	require.NoError(t, err)
	require.NotZero(t, first)

	// Repeating a date is documented to duplicate, not to be guarded
	require.NoError(t, sim.AdvanceDay(day))
	second, err := repo.Count()
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestAdvanceDayDischargeInvariants(t *testing.T) {
	db := setupDB(t)
	sim := newSim(db)
	require.NoError(t, sim.EnsureReferenceData())

	start := date(2024, 1, 1)
	var day time.Time
	for i := 0; i < 15; i++ {
		day = start.AddDate(0, 0, i)
		require.NoError(t, sim.AdvanceDay(day))
	}

	var admissions []models.Admission
	require.NoError(t, db.Find(&admissions).Error)
	require.NotEmpty(t, admissions)

	for _, adm := range admissions {
		if adm.DischargeDate != nil {
			assert.False(t, adm.DischargeDate.Before(adm.AdmissionDate),
				"admission %d discharged before it was admitted", adm.ID)
			require.NotNil(t, adm.DischargeMode)
			assert.Contains(t, models.DischargeModes, *adm.DischargeMode)
		} else {
			// The forced ceiling closes anything older than ten days
			elapsed := int(day.Sub(adm.AdmissionDate.UTC()).Hours() / 24)
			assert.LessOrEqual(t, elapsed, 11, "admission %d left open too long", adm.ID)
		}
	}
}

func TestAdvanceDayForcedDischarge(t *testing.T) {
	db := setupDB(t)
	sim := newSim(db)
	require.NoError(t, sim.EnsureReferenceData())

	ward, err := repository.NewWardRepo(db).FindByName("Cardiology")
	require.NoError(t, err)
	patient := models.Patient{
		FirstName:    "Maria",
		LastName:     "Wise",
		IdentityCode: "80010112349",
		BirthDate:    date(1980, 1, 1),
		Sex:          models.SexFemale,
	}
	require.NoError(t, db.Create(&patient).Error)
	stale := models.Admission{
		PatientID:     patient.ID,
		WardID:        ward.ID,
		AdmissionDate: date(2024, 1, 1),
		AdmissionMode: models.AdmissionModeEmergency,
		DiagnosisCode: "I20",
	}
	require.NoError(t, db.Create(&stale).Error)

	// Twelve days elapsed, past the ten-day ceiling
	require.NoError(t, sim.AdvanceDay(date(2024, 1, 13)))

	var reloaded models.Admission
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	require.NotNil(t, reloaded.DischargeDate)
	assert.Equal(t, date(2024, 1, 13), reloaded.DischargeDate.UTC())
}

func TestAdvanceDayBounceBacks(t *testing.T) {
	db := setupDB(t)
	sim := newSim(db)
	require.NoError(t, sim.EnsureReferenceData())

	ward, err := repository.NewWardRepo(db).FindByName("Neurology")
	require.NoError(t, err)
	discharge := date(2024, 1, 5)
	mode := models.DischargeModeHome
	patient := models.Patient{
		FirstName:    "Piotr",
		LastName:     "Adams",
		IdentityCode: "75060798765",
		BirthDate:    date(1975, 6, 7),
		Sex:          models.SexMale,
	}
	require.NoError(t, db.Create(&patient).Error)
	require.NoError(t, db.Create(&models.Admission{
		PatientID:     patient.ID,
		WardID:        ward.ID,
		AdmissionDate: date(2024, 1, 1),
		DischargeDate: &discharge,
		DischargeMode: &mode,
		AdmissionMode: models.AdmissionModeEmergency,
		DiagnosisCode: "G40",
	}).Error)

	require.NoError(t, sim.AdvanceDay(date(2024, 1, 10)))

	var returns []models.Admission
	require.NoError(t, db.
		Where("patient_id = ? AND admission_mode = ?", patient.ID, models.AdmissionModeEmergencyReturn).
		Find(&returns).Error)
	require.Len(t, returns, 1)
	assert.Equal(t, date(2024, 1, 10), returns[0].AdmissionDate.UTC())
}
