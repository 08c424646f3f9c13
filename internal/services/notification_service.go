// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

type NotificationRequest struct {
	UserID    uuid.UUID              `json:"user_id" validate:"required"`
	Type      string                 `json:"type" validate:"required"`
	Title     string                 `json:"title" validate:"required"`
	Message   string                 `json:"message" validate:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
	SendEmail bool                   `json:"send_email,omitempty"`
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Authentication notifications
func (s *NotificationService) SendWelcomeEmail(user *models.User, verificationToken string) error {
	template := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":        user.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
		"PlatformName":    "iSabiTV",
	}

	subject := "Welcome to iSabiTV"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	template := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	subject := "Password Reset Request"
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Contest notifications
func (s *NotificationService) SendEntrySubmittedNotification(entry *models.ContestEntry, contest *models.Contest) error {
	notification := &models.AdminNotification{
		Type:                "entry_submitted",
		Title:               "New Contest Entry",
		Message:             fmt.Sprintf("%s submitted an entry to '%s'", entry.CreatorName, contest.Title),
		Priority:            "low",
		RelatedResourceType: "contest_entry",
		RelatedResourceID:   &entry.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (s *NotificationService) SendEntryApprovedNotification(entry *models.ContestEntry, contest *models.Contest) error {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", entry.CreatorID).Error; err != nil {
		return fmt.Errorf("creator not found: %w", err)
	}

	data := map[string]interface{}{
		"Username":     creator.Username,
		"ContestTitle": contest.Title,
		"ContestURL":   fmt.Sprintf("%s/contests/%s", s.config.Frontend.BaseURL, contest.ID),
	}

	subject := "Entry Approved - " + contest.Title
	template := s.getEmailTemplate("entry_approved")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(creator.Email, subject, body)
}

func (s *NotificationService) SendEntryRejectedNotification(entry *models.ContestEntry, contest *models.Contest, reason string) error {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", entry.CreatorID).Error; err != nil {
		return fmt.Errorf("creator not found: %w", err)
	}

	data := map[string]interface{}{
		"Username":     creator.Username,
		"ContestTitle": contest.Title,
		"Reason":       reason,
	}

	subject := "Entry Update - " + contest.Title
	template := s.getEmailTemplate("entry_rejected")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(creator.Email, subject, body)
}

func (s *NotificationService) SendWinnerNotification(entry *models.ContestEntry, contest *models.Contest, tier models.PrizeTier) error {
	var creator models.User
	if err := s.db.First(&creator, "id = ?", entry.CreatorID).Error; err != nil {
		return fmt.Errorf("creator not found: %w", err)
	}

	data := map[string]interface{}{
		"Username":     creator.Username,
		"ContestTitle": contest.Title,
		"Tier":         string(tier),
		"ContestURL":   fmt.Sprintf("%s/contests/%s", s.config.Frontend.BaseURL, contest.ID),
	}

	subject := "Congratulations! You won - " + contest.Title
	template := s.getEmailTemplate("contest_winner")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(creator.Email, subject, body)
}

// SendContestResultsAnnouncement records the in-app announcement for a
// published contest. Per-winner emails are sent separately so a single
// failing address does not block the announcement.
func (s *NotificationService) SendContestResultsAnnouncement(contest *models.Contest) error {
	notification := &models.AdminNotification{
		Type:                "contest_results",
		Title:               "Contest Results Published",
		Message:             fmt.Sprintf("Winners for '%s' have been announced", contest.Title),
		Priority:            "high",
		RelatedResourceType: "contest",
		RelatedResourceID:   &contest.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// NotifyWinners delivers winner emails after results publish. Failures
// are logged and skipped.
func (s *NotificationService) NotifyWinners(contest *models.Contest, winners map[models.PrizeTier]*models.ContestEntry) {
	for tier, entry := range winners {
		if err := s.SendWinnerNotification(entry, contest, tier); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"contest_id": contest.ID,
				"entry_id":   entry.ID,
			}).Error("Failed to send winner notification")
		}
	}
}

// Moderation notifications
func (s *NotificationService) SendReportEscalationNotification(report *models.Report) error {
	notification := &models.AdminNotification{
		Type:                "report_escalation",
		Title:               "High Severity Report",
		Message:             fmt.Sprintf("A %s severity report was filed against %s %s", report.Severity, report.TargetType, report.TargetID),
		Priority:            "high",
		RelatedResourceType: "report",
		RelatedResourceID:   &report.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// Admin notifications
func (s *NotificationService) SendUserStatusChangeNotification(user *models.User, oldStatus models.UserStatus, reason string) error {
	data := map[string]interface{}{
		"Username":  user.Username,
		"NewStatus": user.Status,
		"OldStatus": oldStatus,
		"Reason":    reason,
	}

	subject := "Account Status Update"
	template := s.getEmailTemplate("user_status_change")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendPayoutProcessedNotification(user *models.User, payout *models.Payout) error {
	data := map[string]interface{}{
		"Username": user.Username,
		"Amount":   payout.Amount,
		"Status":   payout.Status,
	}

	subject := "Payout Update"
	template := s.getEmailTemplate("payout_processed")
	body, err := s.renderTemplate(template.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// Generic notification methods
func (s *NotificationService) SendCustomNotification(req *NotificationRequest) error {
	notification := &models.AdminNotification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if req.SendEmail {
		var user models.User
		if err := s.db.First(&user, "id = ?", req.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}

		return s.sendEmail(user.Email, req.Title, req.Message)
	}

	return nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to iSabiTV",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thank you for joining iSabiTV. Please verify your email address by clicking the link below:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"contest_winner": {
			Subject: "Contest Winner",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Congratulations {{.Username}}!</h2>
	<p>Your entry won {{.Tier}} place in "{{.ContestTitle}}"!</p>
	<a href="{{.ContestURL}}">View Results</a>
	<p>Best regards,<br>iSabiTV Team</p>
</body>
</html>`,
		},
		"entry_approved": {
			Subject: "Entry Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>Your entry to "{{.ContestTitle}}" has been approved and is now live.</p>
	<a href="{{.ContestURL}}">View Contest</a>
	<p>Best regards,<br>iSabiTV Team</p>
</body>
</html>`,
		},
		// Add more templates as needed...
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
