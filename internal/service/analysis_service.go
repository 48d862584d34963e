package service

import (
	"fmt"
	"math"
	"sort"

	"hospital-sim-reporting/internal/models"
	"hospital-sim-reporting/internal/repository"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gorm.io/gorm"
)

const (
	prolongedPercentile   = 0.90
	readmissionWindowDays = 14
	maxReportCodes        = 10
	maxPlausibleAge       = 110
)

// AnalysisService derives the per-ward report statistics from the
// relational store. Read-only; empty inputs yield empty results.
type AnalysisService struct {
	admissions *repository.AdmissionRepository
	logger     *zap.Logger
}

func NewAnalysisService(db *gorm.DB, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		admissions: repository.NewAdmissionRepo(db),
		logger:     logger,
	}
}

// ProlongedStays classifies the ward's closed admissions against the
// 90th-percentile length-of-stay norm of their diagnosis code and
// aggregates the outliers, ranked by case count.
func (s *AnalysisService) ProlongedStays(ward models.Ward) ([]models.ProlongedStayStat, error) {
	rows, err := s.admissions.ClosedStays(ward.ID)
	if err != nil {
		return nil, fmt.Errorf("load closed stays for %s: %w", ward.Name, err)
	}

	type stay struct {
		code string
		los  float64
		age  float64
	}
	var stays []stay
	for _, row := range rows {
		los := math.Floor(row.DischargeDate.Sub(row.AdmissionDate).Hours() / 24)
		if los < 1 {
			los = 1
		}
		age := math.Floor(row.AdmissionDate.Sub(row.BirthDate).Hours() / 24 / 365.25)
		if age < 0 || age > maxPlausibleAge {
			continue
		}
		stays = append(stays, stay{code: row.DiagnosisCode, los: los, age: age})
	}
	if len(stays) == 0 {
		return nil, nil
	}

	losByCode := make(map[string][]float64)
	totalByCode := make(map[string]int)
	for _, st := range stays {
		losByCode[st.code] = append(losByCode[st.code], st.los)
		totalByCode[st.code]++
	}

	norms := make(map[string]float64, len(losByCode))
	for code, los := range losByCode {
		sorted := append([]float64(nil), los...)
		sort.Float64s(sorted)
		norms[code] = stat.Quantile(prolongedPercentile, stat.LinInterp, sorted, nil)
	}

	prolongedLOS := make(map[string][]float64)
	prolongedAges := make(map[string][]float64)
	for _, st := range stays {
		if st.los > norms[st.code] {
			prolongedLOS[st.code] = append(prolongedLOS[st.code], st.los)
			prolongedAges[st.code] = append(prolongedAges[st.code], st.age)
		}
	}
	if len(prolongedLOS) == 0 {
		return nil, nil
	}

	counts := make(map[string]int, len(prolongedLOS))
	for code, los := range prolongedLOS {
		counts[code] = len(los)
	}

	stats := make([]models.ProlongedStayStat, 0, len(counts))
	for _, code := range rankedCodes(counts, maxReportCodes) {
		cases := counts[code]
		stats = append(stats, models.ProlongedStayStat{
			DiagnosisCode:    code,
			Cases:            cases,
			MeanProlongedLOS: stat.Mean(prolongedLOS[code], nil),
			MeanNormLOS:      norms[code],
			AgeMean:          stat.Mean(prolongedAges[code], nil),
			AgeSD:            sampleSD(prolongedAges[code]),
			PctOfWard:        float64(cases) / float64(len(stays)) * 100,
			PctOfCode:        float64(cases) / float64(totalByCode[code]) * 100,
		})
	}

	s.logger.Debug("prolonged-stay analysis",
		zap.String("ward", ward.Name),
		zap.Int("closed_stays", len(stays)),
		zap.Int("codes", len(stats)))
	return stats, nil
}

// Readmissions aggregates the ward's 14-day readmission pairs per
// readmission diagnosis code, ranked by case count.
func (s *AnalysisService) Readmissions(ward models.Ward) ([]models.ReadmissionStat, error) {
	pairs, err := s.admissions.ReadmissionPairs(ward.Name, readmissionWindowDays)
	if err != nil {
		return nil, fmt.Errorf("load readmission pairs for %s: %w", ward.Name, err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}

	agesByCode := make(map[string][]float64)
	for _, pair := range pairs {
		agesByCode[pair.NextDiagnosisCode] = append(agesByCode[pair.NextDiagnosisCode], pair.AgeAtPrior)
	}
	counts := make(map[string]int, len(agesByCode))
	for code, ages := range agesByCode {
		counts[code] = len(ages)
	}

	stats := make([]models.ReadmissionStat, 0, len(counts))
	for _, code := range rankedCodes(counts, maxReportCodes) {
		stats = append(stats, models.ReadmissionStat{
			DiagnosisCode: code,
			Cases:         counts[code],
			AgeMean:       stat.Mean(agesByCode[code], nil),
			AgeSD:         sampleSD(agesByCode[code]),
		})
	}

	s.logger.Debug("readmission analysis",
		zap.String("ward", ward.Name),
		zap.Int("pairs", len(pairs)),
		zap.Int("codes", len(stats)))
	return stats, nil
}

// rankedCodes orders diagnosis codes by descending count, breaking
// ties alphabetically, capped at limit.
func rankedCodes(counts map[string]int, limit int) []string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if counts[codes[i]] != counts[codes[j]] {
			return counts[codes[i]] > counts[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if len(codes) > limit {
		codes = codes[:limit]
	}
	return codes
}

// sampleSD is the sample standard deviation, with groups of fewer than
// two samples reported as 0 so chart rendering stays well-defined.
func sampleSD(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
