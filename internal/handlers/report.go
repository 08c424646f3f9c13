// internal/handlers/report.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/isabitv/isabitv-backend/internal/i18n"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// POST /reports
func (h *ReportHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	reporterID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	report, err := h.reportService.CreateReport(reporterID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportSubmitted),
		"report":  report,
	})
}

// GET /moderation/reports
func (h *ReportHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.ReportStatus(c.Query("status"))
	severity := models.ReportSeverity(c.Query("severity"))

	reports, total, err := h.reportService.ListReports(params, status, severity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(reports, total, params))
}

// GET /moderation/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(reportID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// POST /moderation/reports/:id/assign
func (h *ReportHandler) Assign(c *gin.Context) {
	moderatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.AssignModerator(moderatorID, reportID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// POST /moderation/reports/:id/close
func (h *ReportHandler) Close(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	moderatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.CloseReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	report, err := h.reportService.CloseReport(moderatorID, reportID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportResolved),
		"report":  report,
	})
}
