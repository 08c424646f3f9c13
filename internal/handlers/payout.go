// internal/handlers/payout.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/isabitv/isabitv-backend/internal/i18n"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type PayoutHandler struct {
	payoutService *services.PayoutService
}

func NewPayoutHandler(payoutService *services.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// GET /my/earnings
func (h *PayoutHandler) EarningsSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.payoutService.EarningsSummary(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// POST /payouts
func (h *PayoutHandler) Request(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	payout, err := h.payoutService.RequestPayout(userID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPayoutRequested),
		"payout":  payout,
	})
}

// GET /my/payouts
func (h *PayoutHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	payouts, total, err := h.payoutService.ListUserPayouts(userID, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(payouts, total, params))
}

// --- Admin ---

// GET /admin/payouts
func (h *PayoutHandler) AdminList(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.PayoutStatus(c.Query("status"))

	payouts, total, err := h.payoutService.ListPayouts(params, status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(payouts, total, params))
}

// POST /admin/payouts/:id/process
func (h *PayoutHandler) Process(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	payoutID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	payout, err := h.payoutService.ProcessPayout(adminID, payoutID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payout": payout,
	})
}

// POST /admin/payouts/:id/reject
func (h *PayoutHandler) Reject(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	payoutID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.RejectPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	payout, err := h.payoutService.RejectPayout(adminID, payoutID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"payout": payout,
	})
}
