// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	TotalCreators     int64   `json:"total_creators"`
	TotalVideos       int64   `json:"total_videos"`
	TotalContests     int64   `json:"total_contests"`
	ActiveContests    int64   `json:"active_contests"`
	JudgingContests   int64   `json:"judging_contests"`
	PendingEntries    int64   `json:"pending_entries"`
	FlaggedEntries    int64   `json:"flagged_entries"`
	OpenReports       int64   `json:"open_reports"`
	PendingPayouts    int64   `json:"pending_payouts"`
	TotalEarnings     float64 `json:"total_earnings"`
	MonthlyEarnings   float64 `json:"monthly_earnings"`
	UserGrowth        float64 `json:"user_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole   `json:"role,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	Verified      *bool              `json:"verified,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	// User statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)
	s.db.Model(&models.User{}).Where("role = ?", models.RoleCreator).Count(&stats.TotalCreators)

	// Content statistics
	s.db.Model(&models.Video{}).Count(&stats.TotalVideos)

	// Contest statistics
	s.db.Model(&models.Contest{}).Count(&stats.TotalContests)
	s.db.Model(&models.Contest{}).Where("status = ?", models.ContestStatusActive).Count(&stats.ActiveContests)
	s.db.Model(&models.Contest{}).Where("status = ?", models.ContestStatusJudging).Count(&stats.JudgingContests)

	// Moderation statistics
	s.db.Model(&models.ContestEntry{}).Where("status = ?", models.EntryStatusPending).Count(&stats.PendingEntries)
	s.db.Model(&models.ContestEntry{}).Where("status = ?", models.EntryStatusFlagged).Count(&stats.FlaggedEntries)
	s.db.Model(&models.Report{}).
		Where("status IN ?", []models.ReportStatus{models.ReportStatusPending, models.ReportStatusUnderReview}).
		Count(&stats.OpenReports)

	// Earnings statistics
	s.db.Model(&models.Payout{}).Where("status = ?", models.PayoutStatusRequested).Count(&stats.PendingPayouts)
	s.db.Model(&models.Earning{}).Select("COALESCE(SUM(amount), 0)").Scan(&stats.TotalEarnings)
	s.db.Model(&models.Earning{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&stats.MonthlyEarnings)

	// Growth calculations
	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	// Apply filters
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "role", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	if !status.Valid() {
		return apperrors.NewValidation("status", "unknown user status")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Staff accounts are only touchable by someone who outranks them
	if user.Role.Satisfies(models.RoleModerator) {
		var admin models.User
		if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if !admin.Role.Satisfies(user.Role) || admin.ID == user.ID {
			return apperrors.ErrForbidden
		}
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	go writeAuditLog(s.db, adminID, "user_status_updated", "user", &userID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	go s.sendUserStatusNotification(&user, oldStatus, reason)

	return nil
}

// UpdateUserRole changes a user's role. An admin can only grant roles they
// themselves hold the capabilities of, so privilege cannot be escalated
// past the grantor.
func (s *AdminService) UpdateUserRole(userID uuid.UUID, role models.UserRole, adminID uuid.UUID) error {
	if !role.Valid() {
		return apperrors.NewValidation("role", "unknown role")
	}

	var admin models.User
	if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if !admin.Role.Satisfies(role) {
		return apperrors.ErrForbidden
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if !admin.Role.Satisfies(user.Role) {
		return apperrors.ErrForbidden
	}

	oldRole := user.Role
	user.Role = role

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	go writeAuditLog(s.db, adminID, "user_role_updated", "user", &userID,
		map[string]interface{}{"role": oldRole},
		map[string]interface{}{"role": role})

	return nil
}

// VerifyCreator toggles the creator's verified badge.
func (s *AdminService) VerifyCreator(userID uuid.UUID, verified bool, adminID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	oldVerified := user.IsVerified
	user.IsVerified = verified

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}

	go writeAuditLog(s.db, adminID, "user_verification_updated", "user", &userID,
		map[string]interface{}{"is_verified": oldVerified},
		map[string]interface{}{"is_verified": verified})

	return nil
}

// Settings Management
func (s *AdminService) GetSettings() (map[string]models.PlatformSetting, error) {
	var settings []models.PlatformSetting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	settingsMap := make(map[string]models.PlatformSetting)
	for _, setting := range settings {
		key := fmt.Sprintf("%s.%s", setting.Category, setting.Key)
		settingsMap[key] = setting
	}

	return settingsMap, nil
}

func (s *AdminService) UpdateSetting(category, key string, value interface{}, dataType string, adminID uuid.UUID) error {
	var setting models.PlatformSetting
	err := s.db.Where("category = ? AND key = ?", category, key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Create new setting
		setting = models.PlatformSetting{
			Category:  category,
			Key:       key,
			Value:     models.JSONB{"value": value},
			DataType:  dataType,
			UpdatedBy: adminID,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	} else {
		// Update existing setting
		oldValue := setting.Value
		setting.Value = models.JSONB{"value": value}
		setting.DataType = dataType
		setting.UpdatedBy = adminID

		if err := s.db.Save(&setting).Error; err != nil {
			return fmt.Errorf("failed to update setting: %w", err)
		}

		go writeAuditLog(s.db, adminID, "setting_updated", "platform_setting", &setting.ID,
			map[string]interface{}{"value": oldValue},
			map[string]interface{}{"value": setting.Value})
	}

	return nil
}

// Audit trail
func (s *AdminService) GetAuditLogs(params utils.PaginationParams, action string, resourceType string) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if action != "" {
		query = query.Where("action = ?", action)
	}
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []models.AuditLog
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

// Notifications inbox
func (s *AdminService) GetNotifications(params utils.PaginationParams, unreadOnly bool) ([]models.AdminNotification, int64, error) {
	query := s.db.Model(&models.AdminNotification{})

	if unreadOnly {
		query = query.Where("status = ?", "unread")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.AdminNotification
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *AdminService) MarkNotificationRead(notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"status": "read", "read_at": now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Analytics and Reporting
func (s *AdminService) GetAnalytics(startDate, endDate time.Time, metricNames []string) (map[string]interface{}, error) {
	analytics := make(map[string]interface{})

	for _, metric := range metricNames {
		switch metric {
		case "user_registrations":
			var count int64
			s.db.Model(&models.User{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["user_registrations"] = count

		case "video_uploads":
			var count int64
			s.db.Model(&models.Video{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["video_uploads"] = count

		case "contest_entries":
			var count int64
			s.db.Model(&models.ContestEntry{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["contest_entries"] = count

		case "reports_filed":
			var count int64
			s.db.Model(&models.Report{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["reports_filed"] = count

		case "earnings":
			var earnings float64
			s.db.Model(&models.Earning{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Select("COALESCE(SUM(amount), 0)").Scan(&earnings)
			analytics["earnings"] = earnings
		}
	}

	return analytics, nil
}

// Helper methods
func (s *AdminService) sendUserStatusNotification(user *models.User, oldStatus models.UserStatus, reason string) {
	if err := s.notificationService.SendUserStatusChangeNotification(user, oldStatus, reason); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to send status notification")
	}
}
