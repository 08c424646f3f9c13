// internal/handlers/admin.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isabitv/isabitv-backend/internal/i18n"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	if status := c.Query("status"); status != "" {
		s := models.UserStatus(status)
		filter.Status = &s
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, filter.PaginationParams))
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.UserStatus `json:"status" validate:"required"`
		Reason string            `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateUserStatus(userID, req.Status, adminID, req.Reason); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "user status updated",
	})
}

// PUT /admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role models.UserRole `json:"role" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateUserRole(userID, req.Role, adminID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "user role updated",
	})
}

// PUT /admin/users/:id/verify
func (h *AdminHandler) VerifyCreator(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.VerifyCreator(userID, req.Verified, adminID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "verification updated",
	})
}

// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings()
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"settings": settings,
	})
}

// PUT /admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Category string      `json:"category" validate:"required"`
		Key      string      `json:"key" validate:"required"`
		Value    interface{} `json:"value" validate:"required"`
		DataType string      `json:"data_type" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateSetting(req.Category, req.Key, req.Value, req.DataType, adminID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "setting updated",
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	action := c.Query("action")
	resourceType := c.Query("resource_type")

	logs, total, err := h.adminService.GetAuditLogs(params, action, resourceType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(logs, total, params))
}

// GET /admin/notifications
func (h *AdminHandler) Notifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, err := h.adminService.GetNotifications(params, unreadOnly)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params))
}

// PUT /admin/notifications/:id/read
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	notificationID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.MarkNotificationRead(notificationID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "notification marked read",
	})
}

// GET /admin/analytics
func (h *AdminHandler) Analytics(c *gin.Context) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, -1, 0)

	if v := c.Query("start_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			startDate = parsed
		}
	}
	if v := c.Query("end_date"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			endDate = parsed
		}
	}

	metricNames := c.QueryArray("metrics")
	if len(metricNames) == 0 {
		metricNames = []string{"user_registrations", "video_uploads", "contest_entries", "reports_filed", "earnings"}
	}

	analytics, err := h.adminService.GetAnalytics(startDate, endDate, metricNames)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"analytics":  analytics,
		"start_date": startDate,
		"end_date":   endDate,
	})
}
