package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"hospital-sim-reporting/internal/blob"
	"hospital-sim-reporting/internal/config"
	"hospital-sim-reporting/internal/database"
	"hospital-sim-reporting/internal/mailer"
	"hospital-sim-reporting/internal/models"
	"hospital-sim-reporting/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunService orchestrates the two scheduled entry points. Each run
// fetches the store blob fresh, works on a local scratch copy, and
// (for generate) swaps the whole file back; the mutex keeps the cron
// and HTTP triggers from overlapping on the same snapshot.
type RunService struct {
	cfg     *config.Config
	blobs   blob.Store
	reports *ReportService
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewRunService(cfg *config.Config, blobs blob.Store, reports *ReportService, logger *zap.Logger) *RunService {
	return &RunService{
		cfg:     cfg,
		blobs:   blobs,
		reports: reports,
		logger:  logger,
	}
}

// RunGenerate advances the synthetic hospital by one day. A missing or
// unreadable store object means a first run and starts an empty
// database; schema or upload failures abort the run.
func (s *RunService) RunGenerate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With(zap.String("run_id", uuid.NewString()), zap.String("run", "generate"))
	now := time.Now().UTC()
	store := s.cfg.Store

	for _, container := range []string{store.DBContainer, store.ReportsContainer} {
		if err := s.blobs.EnsureContainer(ctx, container); err != nil {
			log.Error("ensure container failed", zap.String("container", container), zap.Error(err))
			return err
		}
	}

	data, err := s.blobs.Get(ctx, store.DBContainer, store.ObjectKey)
	if err != nil {
		log.Warn("store object unavailable, starting a new database",
			zap.String("container", store.DBContainer),
			zap.String("key", store.ObjectKey),
			zap.Error(err))
		data = nil
	} else {
		log.Info("store fetched",
			zap.String("container", store.DBContainer),
			zap.String("key", store.ObjectKey),
			zap.Int("bytes", len(data)))
	}

	if err := writeLocalStore(store.LocalPath, data); err != nil {
		log.Error("write local store failed", zap.String("path", store.LocalPath), zap.Error(err))
		return err
	}

	db, err := database.Open(store.LocalPath, false)
	if err != nil {
		log.Error("open store failed", zap.String("path", store.LocalPath), zap.Error(err))
		return err
	}

	runErr := func() error {
		if err := database.Migrate(db); err != nil {
			return err
		}
		sim := NewSimulationService(db, models.DefaultCatalog(), s.cfg.Simulation.Seed, log)
		if err := sim.EnsureReferenceData(); err != nil {
			return err
		}
		return sim.AdvanceDay(now)
	}()
	closeErr := database.Close(db)
	if runErr != nil {
		log.Error("simulation failed", zap.Error(runErr))
		return runErr
	}
	if closeErr != nil {
		log.Error("closing store failed", zap.Error(closeErr))
		return closeErr
	}

	payload, err := os.ReadFile(store.LocalPath)
	if err != nil {
		log.Error("read local store failed", zap.String("path", store.LocalPath), zap.Error(err))
		return err
	}
	if err := s.blobs.Put(ctx, store.DBContainer, store.ObjectKey, payload); err != nil {
		log.Error("store upload failed",
			zap.String("container", store.DBContainer),
			zap.String("key", store.ObjectKey),
			zap.Error(err))
		return err
	}

	log.Info("store updated",
		zap.String("container", store.DBContainer),
		zap.String("key", store.ObjectKey),
		zap.Int("bytes", len(payload)))
	return nil
}

// RunAnalyze derives the per-ward reports from the current store
// snapshot. A missing store is fatal for the run; per-ward chart
// failures and email failures are logged and absorbed.
func (s *RunService) RunAnalyze(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With(zap.String("run_id", uuid.NewString()), zap.String("run", "analyze"))
	now := time.Now().UTC()
	store := s.cfg.Store

	if err := s.blobs.EnsureContainer(ctx, store.ReportsContainer); err != nil {
		log.Error("ensure container failed", zap.String("container", store.ReportsContainer), zap.Error(err))
		return err
	}

	data, err := s.blobs.Get(ctx, store.DBContainer, store.ObjectKey)
	if err != nil {
		log.Error("store unavailable, no reports produced",
			zap.String("container", store.DBContainer),
			zap.String("key", store.ObjectKey),
			zap.Error(err))
		return fmt.Errorf("fetch store for analysis: %w", err)
	}

	if err := writeLocalStore(store.LocalPath, data); err != nil {
		log.Error("write local store failed", zap.String("path", store.LocalPath), zap.Error(err))
		return err
	}

	db, err := database.Open(store.LocalPath, false)
	if err != nil {
		log.Error("open store failed", zap.String("path", store.LocalPath), zap.Error(err))
		return err
	}
	attachments := s.analyzeStore(ctx, db, now, log)
	if err := database.Close(db); err != nil {
		log.Warn("closing store failed", zap.Error(err))
	}

	if len(attachments) == 0 {
		log.Info("no report data, skipping email")
		return nil
	}

	if err := s.reports.SendDigest(now, attachments); err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			log.Warn("email not configured, charts persisted only",
				zap.Int("attachments", len(attachments)))
		} else {
			log.Error("email delivery failed, run partially succeeded",
				zap.Int("attachments", len(attachments)),
				zap.Error(err))
		}
		return nil
	}

	log.Info("analysis complete", zap.Int("attachments", len(attachments)))
	return nil
}

func (s *RunService) analyzeStore(ctx context.Context, db *gorm.DB, now time.Time, log *zap.Logger) []mailer.Attachment {
	wards, err := repository.NewWardRepo(db).List()
	if err != nil {
		log.Error("store unreadable, run the generator first", zap.Error(err))
		return nil
	}
	if len(wards) == 0 {
		log.Warn("store has no wards, run the generator first")
		return nil
	}

	analysis := NewAnalysisService(db, log)
	var attachments []mailer.Attachment
	for _, ward := range wards {
		prolonged, err := analysis.ProlongedStays(ward)
		if err != nil {
			log.Error("prolonged-stay analysis failed", zap.String("ward", ward.Name), zap.Error(err))
			continue
		}
		readmitted, err := analysis.Readmissions(ward)
		if err != nil {
			log.Error("readmission analysis failed", zap.String("ward", ward.Name), zap.Error(err))
			continue
		}
		attachments = append(attachments, s.reports.WardCharts(ctx, now, ward, prolonged, readmitted)...)
	}

	log.Info("ward analysis complete",
		zap.Int("wards", len(wards)),
		zap.Int("attachments", len(attachments)))
	return attachments
}

// writeLocalStore replaces the scratch store file with the fetched
// bytes. Nil data leaves no file so sqlite initializes a fresh one.
func writeLocalStore(path string, data []byte) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	if data == nil {
		return nil
	}
	return os.WriteFile(path, data, 0o600)
}
