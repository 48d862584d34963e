package service

import (
	"fmt"
	"math/rand"
	"time"

	"hospital-sim-reporting/internal/identity"
	"hospital-sim-reporting/internal/models"
	"hospital-sim-reporting/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dischargeProbability = 0.2
	maxStayDays          = 10
	bounceBackLimit      = 3
	newAdmissionsMin     = 5
	newAdmissionsMax     = 10
	doctorCount          = 20
)

// SimulationService advances the synthetic hospital by one day:
// resolves open admissions into discharges, opens bounce-back
// readmissions, and injects new emergency admissions.
type SimulationService struct {
	db      *gorm.DB
	catalog models.Catalog
	rng     *rand.Rand
	faker   *gofakeit.Faker
	logger  *zap.Logger
}

// NewSimulationService binds a simulation to an open store. Seed 0
// seeds from the clock; any other value makes a run reproducible.
func NewSimulationService(db *gorm.DB, catalog models.Catalog, seed int64, logger *zap.Logger) *SimulationService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SimulationService{
		db:      db,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(seed)),
		faker:   gofakeit.New(uint64(seed)),
		logger:  logger,
	}
}

// EnsureReferenceData seeds the ward list and the fixed doctor roster
// when their tables are empty. Idempotent across runs.
func (s *SimulationService) EnsureReferenceData() error {
	wards := repository.NewWardRepo(s.db)
	if err := wards.SeedIfEmpty(s.catalog.Wards); err != nil {
		return fmt.Errorf("seed wards: %w", err)
	}

	doctors := repository.NewDoctorRepo(s.db)
	existing, err := doctors.Count()
	if err != nil {
		return fmt.Errorf("count doctors: %w", err)
	}
	if existing > 0 {
		return nil
	}

	list, err := wards.List()
	if err != nil {
		return fmt.Errorf("list wards: %w", err)
	}
	for i := 0; i < doctorCount; i++ {
		ward := list[s.rng.Intn(len(list))]
		doctor := &models.Doctor{
			FirstName: s.faker.FirstName(),
			LastName:  s.faker.LastName(),
			WardID:    ward.ID,
		}
		if err := doctors.Create(doctor); err != nil {
			return fmt.Errorf("seed doctor: %w", err)
		}
	}
	s.logger.Info("reference data seeded",
		zap.Int("wards", len(list)),
		zap.Int("doctors", doctorCount))
	return nil
}

// AdvanceDay applies one simulated day to the store, committing all
// writes as a single transaction. Calling it twice for the same date
// opens a second batch of admissions; callers must invoke it at most
// once per simulated date.
func (s *SimulationService) AdvanceDay(date time.Time) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	return s.db.Transaction(func(tx *gorm.DB) error {
		admissions := repository.NewAdmissionRepo(tx)
		patients := repository.NewPatientRepo(tx)
		wards := repository.NewWardRepo(tx)
		doctors := repository.NewDoctorRepo(tx)

		discharged, err := s.resolveDischarges(admissions, day)
		if err != nil {
			return fmt.Errorf("resolve discharges: %w", err)
		}
		bounceBacks, err := s.openBounceBacks(admissions, wards, day)
		if err != nil {
			return fmt.Errorf("open bounce-backs: %w", err)
		}
		created, err := s.openNewAdmissions(admissions, patients, wards, doctors, day)
		if err != nil {
			return fmt.Errorf("open new admissions: %w", err)
		}

		s.logger.Info("simulated day applied",
			zap.String("date", day.Format("2006-01-02")),
			zap.Int("discharged", discharged),
			zap.Int("bounce_backs", bounceBacks),
			zap.Int("new_admissions", created))
		return nil
	})
}

// resolveDischarges closes each open admission with probability 0.2,
// or unconditionally once the stay exceeds maxStayDays.
func (s *SimulationService) resolveDischarges(admissions *repository.AdmissionRepository, day time.Time) (int, error) {
	open, err := admissions.ListOpen()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, adm := range open {
		elapsed := int(day.Sub(adm.AdmissionDate).Hours() / 24)
		if s.rng.Float64() < dischargeProbability || elapsed > maxStayDays {
			mode := models.DischargeModes[s.rng.Intn(len(models.DischargeModes))]
			if err := admissions.Discharge(adm.ID, day, mode); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// openBounceBacks readmits up to three patients discharged before the
// simulated date, sampled without replacement. A patient currently
// admitted elsewhere stays eligible.
func (s *SimulationService) openBounceBacks(admissions *repository.AdmissionRepository, wards *repository.WardRepository, day time.Time) (int, error) {
	ids, err := admissions.PatientIDsDischargedBefore(day)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	s.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	n := bounceBackLimit
	if len(ids) < n {
		n = len(ids)
	}

	for _, patientID := range ids[:n] {
		ward, code, err := s.randomWardAndCode(wards)
		if err != nil {
			return 0, err
		}
		admission := &models.Admission{
			PatientID:     patientID,
			WardID:        ward.ID,
			AdmissionDate: day,
			AdmissionMode: models.AdmissionModeEmergencyReturn,
			DiagnosisCode: code,
		}
		if err := admissions.Create(admission); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// openNewAdmissions injects a random count of fresh emergency
// admissions, creating patients as needed. An identity-code collision
// reuses the existing patient instead of failing the unique index.
func (s *SimulationService) openNewAdmissions(
	admissions *repository.AdmissionRepository,
	patients *repository.PatientRepository,
	wards *repository.WardRepository,
	doctors *repository.DoctorRepository,
	day time.Time,
) (int, error) {
	n := newAdmissionsMin + s.rng.Intn(newAdmissionsMax-newAdmissionsMin+1)

	for i := 0; i < n; i++ {
		sex := models.SexFemale
		if s.rng.Intn(2) == 0 {
			sex = models.SexMale
		}
		birth := s.randomBirthDate(day)
		code := identity.Generate(birth, sex, s.rng)

		patient, err := patients.FindByIdentityCode(code)
		if err != nil {
			return 0, err
		}
		if patient == nil {
			patient = &models.Patient{
				FirstName:    s.faker.FirstName(),
				LastName:     s.faker.LastName(),
				IdentityCode: code,
				BirthDate:    birth,
				Sex:          sex,
			}
			if err := patients.Create(patient); err != nil {
				return 0, err
			}
		}

		ward, diagnosis, err := s.randomWardAndCode(wards)
		if err != nil {
			return 0, err
		}

		var doctorID *uint
		staff, err := doctors.ListByWard(ward.ID)
		if err != nil {
			return 0, err
		}
		if len(staff) > 0 {
			id := staff[s.rng.Intn(len(staff))].ID
			doctorID = &id
		}

		admission := &models.Admission{
			PatientID:     patient.ID,
			WardID:        ward.ID,
			DoctorID:      doctorID,
			AdmissionDate: day,
			AdmissionMode: models.AdmissionModeEmergency,
			DiagnosisCode: diagnosis,
		}
		if err := admissions.Create(admission); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (s *SimulationService) randomWardAndCode(wards *repository.WardRepository) (*models.Ward, string, error) {
	name := s.catalog.Wards[s.rng.Intn(len(s.catalog.Wards))]
	ward, err := wards.FindByName(name)
	if err != nil {
		return nil, "", fmt.Errorf("find ward %s: %w", name, err)
	}
	codes := s.catalog.Codes(name)
	return ward, codes[s.rng.Intn(len(codes))], nil
}

func (s *SimulationService) randomBirthDate(day time.Time) time.Time {
	start := day.AddDate(-95, 0, 0)
	end := day.AddDate(-1, 0, 0)
	d := s.faker.DateRange(start, end)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
