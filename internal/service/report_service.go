package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospital-sim-reporting/internal/blob"
	"hospital-sim-reporting/internal/chart"
	"hospital-sim-reporting/internal/mailer"
	"hospital-sim-reporting/internal/models"

	"go.uber.org/zap"
)

// ReportService turns aggregated series into chart images and routes
// them to blob storage and to the email digest.
type ReportService struct {
	blobs            blob.Store
	renderer         *chart.Renderer
	mail             mailer.Sender
	reportsContainer string
	logger           *zap.Logger
}

func NewReportService(blobs blob.Store, renderer *chart.Renderer, mail mailer.Sender, reportsContainer string, logger *zap.Logger) *ReportService {
	return &ReportService{
		blobs:            blobs,
		renderer:         renderer,
		mail:             mail,
		reportsContainer: reportsContainer,
		logger:           logger,
	}
}

// WardCharts renders whichever of the two report families carry data
// for the ward, persists the images under the date-partitioned key,
// and returns them as in-memory attachments. Rendering or upload
// failures are logged per chart and skipped.
func (s *ReportService) WardCharts(ctx context.Context, date time.Time, ward models.Ward, prolonged []models.ProlongedStayStat, readmitted []models.ReadmissionStat) []mailer.Attachment {
	var attachments []mailer.Attachment

	if len(prolonged) > 0 {
		name := chartFileName("prolonged_stays", ward.Name)
		img, err := s.renderer.ProlongedStays(ward.Name, prolonged)
		if err != nil {
			s.logger.Error("prolonged-stay chart failed",
				zap.String("ward", ward.Name),
				zap.Int("codes", len(prolonged)),
				zap.Error(err))
		} else {
			s.persist(ctx, date, name, img)
			attachments = append(attachments, mailer.Attachment{Name: name, Data: img})
		}
	}

	if len(readmitted) > 0 {
		name := chartFileName("readmissions", ward.Name)
		img, err := s.renderer.Readmissions(ward.Name, readmitted)
		if err != nil {
			s.logger.Error("readmission chart failed",
				zap.String("ward", ward.Name),
				zap.Int("codes", len(readmitted)),
				zap.Error(err))
		} else {
			s.persist(ctx, date, name, img)
			attachments = append(attachments, mailer.Attachment{Name: name, Data: img})
		}
	}

	return attachments
}

// persist uploads a chart image. An upload failure is logged but does
// not drop the attachment; the email digest still carries it.
func (s *ReportService) persist(ctx context.Context, date time.Time, name string, img []byte) {
	key := fmt.Sprintf("charts/%s/%s", date.Format("2006-01-02"), name)
	if err := s.blobs.Put(ctx, s.reportsContainer, key, img); err != nil {
		s.logger.Error("chart upload failed",
			zap.String("container", s.reportsContainer),
			zap.String("key", key),
			zap.Error(err))
		return
	}
	s.logger.Info("chart persisted",
		zap.String("container", s.reportsContainer),
		zap.String("key", key),
		zap.Int("bytes", len(img)))
}

// SendDigest emails all collected attachments as one message
func (s *ReportService) SendDigest(date time.Time, attachments []mailer.Attachment) error {
	subject := fmt.Sprintf("Hospital Report - %s", date.Format("2006-01-02"))
	body := "Attached are the hospital data analysis charts."
	return s.mail.Send(subject, body, attachments)
}

func chartFileName(kind, ward string) string {
	return fmt.Sprintf("%s_%s.png", kind, strings.ReplaceAll(ward, " ", "_"))
}
