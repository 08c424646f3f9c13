// internal/handlers/contest.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/isabitv/isabitv-backend/internal/i18n"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type ContestHandler struct {
	contestService *services.ContestService
	winnerService  *services.WinnerService
}

func NewContestHandler(contestService *services.ContestService, winnerService *services.WinnerService) *ContestHandler {
	return &ContestHandler{
		contestService: contestService,
		winnerService:  winnerService,
	}
}

// GET /contests
func (h *ContestHandler) ListPublic(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	contests, total, err := h.contestService.ListPublicContests(params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(contests, total, params))
}

// GET /contests/:id
func (h *ContestHandler) Get(c *gin.Context) {
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	contest, err := h.contestService.GetContest(contestID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Drafts are not public
	if contest.Status == models.ContestStatusDraft {
		if role, exists := utils.GetUserRoleFromContext(c); !exists || !models.UserRole(role).Satisfies(models.RoleModerator) {
			utils.NotFoundResponse(c, "contest")
			return
		}
	}

	utils.SuccessResponse(c, gin.H{
		"contest": contest,
	})
}

// GET /contests/:id/results
func (h *ContestHandler) Results(c *gin.Context) {
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	contest, winners, err := h.winnerService.Results(contestID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contest":      contest,
		"winners":      contest.Winners,
		"entries":      winners,
		"announcement": contest.Announcement,
	})
}

// --- Administrative lifecycle ---

// GET /admin/contests
func (h *ContestHandler) AdminList(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	status := models.ContestStatus(c.Query("status"))

	contests, total, err := h.contestService.ListContests(params, status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(contests, total, params))
}

// POST /admin/contests
func (h *ContestHandler) Create(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contest, err := h.contestService.CreateContest(adminID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContestCreated),
		"contest": contest,
	})
}

// PUT /admin/contests/:id
func (h *ContestHandler) Update(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contest, err := h.contestService.UpdateContest(adminID, contestID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contest": contest,
	})
}

// POST /admin/contests/:id/launch
func (h *ContestHandler) Launch(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	contest, err := h.contestService.Launch(adminID, contestID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContestLaunched),
		"contest": contest,
	})
}

// POST /admin/contests/:id/judging
func (h *ContestHandler) BeginJudging(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	contest, err := h.contestService.BeginJudging(adminID, contestID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContestJudging),
		"contest": contest,
	})
}

// POST /admin/contests/:id/cancel
func (h *ContestHandler) Cancel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contest, err := h.contestService.Cancel(adminID, contestID, req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContestCancelled),
		"contest": contest,
	})
}

// DELETE /admin/contests/:id
func (h *ContestHandler) Delete(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.contestService.DeleteContest(adminID, contestID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyContestDeleted),
	})
}

// GET /admin/contests/:id/candidates
func (h *ContestHandler) Candidates(c *gin.Context) {
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	candidates, err := h.winnerService.Candidates(contestID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"candidates": candidates,
	})
}

// POST /admin/contests/:id/publish
func (h *ContestHandler) PublishResults(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.PublishResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	contest, err := h.winnerService.PublishResults(adminID, contestID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyWinnersPublished),
		"contest": contest,
	})
}
