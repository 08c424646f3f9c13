// internal/services/report_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/metrics"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type ReportService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateReportRequest struct {
	TargetType  string                `json:"target_type" validate:"required,oneof=video entry"`
	TargetID    uuid.UUID             `json:"target_id" validate:"required"`
	Reason      string                `json:"reason" validate:"required,max=100"`
	Description string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	Severity    models.ReportSeverity `json:"severity" validate:"required,oneof=low medium high critical"`
	Category    string                `json:"category,omitempty" validate:"omitempty,max=100"`
	Evidence    []string              `json:"evidence,omitempty" validate:"omitempty,dive,url"`
}

type CloseReportRequest struct {
	Status     models.ReportStatus `json:"status" validate:"required,oneof=resolved dismissed"`
	Resolution string              `json:"resolution" validate:"required,max=2000"`
}

func NewReportService(db *gorm.DB, notificationService *NotificationService) *ReportService {
	return &ReportService{
		db:                  db,
		notificationService: notificationService,
	}
}

// CreateReport files a report against a video or contest entry. High and
// critical severity reports against entries immediately flag the entry so
// it drops out of public view until a moderator rules on it.
func (s *ReportService) CreateReport(reporterID uuid.UUID, req *CreateReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	title, err := s.resolveTargetTitle(req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		TargetTitle: title,
		ReporterID:  reporterID,
		Reason:      req.Reason,
		Description: req.Description,
		Severity:    req.Severity,
		Category:    req.Category,
		Evidence:    pq.StringArray(req.Evidence),
		Status:      models.ReportStatusPending,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if report.Escalates() {
		s.escalate(report)
	}

	return report, nil
}

func (s *ReportService) resolveTargetTitle(targetType string, targetID uuid.UUID) (string, error) {
	switch targetType {
	case models.ReportTargetVideo:
		var video models.Video
		if err := s.db.Select("id, title").First(&video, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.ErrNotFound
			}
			return "", fmt.Errorf("database error: %w", err)
		}
		return video.Title, nil
	case models.ReportTargetEntry:
		var entry models.ContestEntry
		if err := s.db.Select("id, title").First(&entry, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", apperrors.ErrNotFound
			}
			return "", fmt.Errorf("database error: %w", err)
		}
		return entry.Title, nil
	default:
		return "", apperrors.NewValidation("target_type", "unknown report target")
	}
}

// escalate flags the reported entry. A flag that fails because the entry is
// already rejected or a winner is fine, the report itself still stands.
func (s *ReportService) escalate(report *models.Report) {
	var entry models.ContestEntry
	if err := s.db.First(&entry, "id = ?", report.TargetID).Error; err != nil {
		logrus.WithError(err).WithField("report_id", report.ID).Warn("Escalation target missing")
		return
	}

	notes := fmt.Sprintf("Auto-flagged by %s severity report: %s", report.Severity, report.Reason)
	if err := entry.Moderate(models.EntryStatusFlagged, notes); err != nil {
		logrus.WithField("report_id", report.ID).WithField("entry_status", entry.Status).
			Info("Escalation skipped, entry not flaggable")
		return
	}

	if err := s.db.Model(&entry).Updates(map[string]interface{}{
		"status":          entry.Status,
		"moderator_notes": entry.ModeratorNotes,
	}).Error; err != nil {
		logrus.WithError(err).WithField("report_id", report.ID).Error("Failed to flag reported entry")
		return
	}

	metrics.EntryModerations.WithLabelValues(string(models.EntryStatusFlagged)).Inc()

	if err := s.notificationService.SendReportEscalationNotification(report); err != nil {
		logrus.WithError(err).Warn("Failed to record escalation notification")
	}
}

func (s *ReportService) GetReport(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.Preload("Reporter").Preload("Moderator").
		First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &report, nil
}

func (s *ReportService) ListReports(params utils.PaginationParams, status models.ReportStatus, severity models.ReportSeverity) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("reason ILIKE ? OR target_title ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "severity", "status"})
	if err := utils.ApplyPagination(query, params).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, total, nil
}

// AssignModerator claims a report for review, moving it under review if it
// is still pending.
func (s *ReportService) AssignModerator(moderatorID, reportID uuid.UUID) (*models.Report, error) {
	report, err := s.GetReport(reportID)
	if err != nil {
		return nil, err
	}

	if report.Status != models.ReportStatusPending && report.Status != models.ReportStatusUnderReview {
		return nil, apperrors.InvalidTransition("report", string(report.Status), string(models.ReportStatusUnderReview))
	}

	updates := map[string]interface{}{"moderator_assigned": moderatorID}
	if report.Status == models.ReportStatusPending {
		updates["status"] = models.ReportStatusUnderReview
	}

	if err := s.db.Model(&models.Report{}).Where("id = ?", reportID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to assign report: %w", err)
	}

	report.ModeratorAssigned = &moderatorID
	report.Status = models.ReportStatusUnderReview

	go writeAuditLog(s.db, moderatorID, "report_assigned", "report", &report.ID, nil, nil)

	return report, nil
}

// CloseReport resolves or dismisses a report with a mandatory resolution.
func (s *ReportService) CloseReport(moderatorID, reportID uuid.UUID, req *CloseReportRequest) (*models.Report, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	report, err := s.GetReport(reportID)
	if err != nil {
		return nil, err
	}

	from := report.Status
	if err := report.Close(req.Status, req.Resolution, time.Now()); err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Report{}).Where("id = ?", reportID).Updates(map[string]interface{}{
		"status":      report.Status,
		"resolution":  report.Resolution,
		"resolved_at": report.ResolvedAt,
	}).Error; err != nil {
		report.Status = from
		return nil, fmt.Errorf("failed to close report: %w", err)
	}

	go writeAuditLog(s.db, moderatorID, "report_closed", "report", &report.ID,
		map[string]interface{}{"status": string(from)},
		map[string]interface{}{"status": string(report.Status), "resolution": req.Resolution})

	return report, nil
}

// PendingCount feeds the admin dashboard badge.
func (s *ReportService) PendingCount() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Report{}).
		Where("status IN ?", []models.ReportStatus{models.ReportStatusPending, models.ReportStatusUnderReview}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
