// internal/handlers/entry.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/isabitv/isabitv-backend/internal/i18n"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type EntryHandler struct {
	entryService *services.EntryService
	userService  *services.UserService
}

func NewEntryHandler(entryService *services.EntryService, userService *services.UserService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		userService:  userService,
	}
}

// POST /contests/:id/entries
func (h *EntryHandler) Submit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	creator, err := h.userService.GetUserByID(userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var req services.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	entry, err := h.entryService.SubmitEntry(creator, contestID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEntrySubmitted),
		"entry":   entry,
	})
}

// GET /contests/:id/entries
func (h *EntryHandler) ListPublic(c *gin.Context) {
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	entries, total, err := h.entryService.ListPublicEntries(contestID, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}

// GET /entries/:id
func (h *EntryHandler) Get(c *gin.Context) {
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	entry, err := h.entryService.GetEntry(entryID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	// Non-public entries are only visible to their creator and staff
	if entry.Status != models.EntryStatusApproved && entry.Status != models.EntryStatusWinner {
		userIDStr, _ := utils.GetUserIDFromContext(c)
		role, _ := utils.GetUserRoleFromContext(c)
		if userIDStr != entry.CreatorID.String() && !models.UserRole(role).Satisfies(models.RoleModerator) {
			utils.NotFoundResponse(c, "entry")
			return
		}
	}

	utils.SuccessResponse(c, gin.H{
		"entry": entry,
	})
}

// GET /my/entries
func (h *EntryHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	entries, total, err := h.entryService.ListByCreator(userID, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}

// POST /entries/:id/engagement
func (h *EntryHandler) RecordEngagement(c *gin.Context) {
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Views    int64 `json:"views"`
		Likes    int64 `json:"likes"`
		Comments int64 `json:"comments"`
		Shares   int64 `json:"shares"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "invalid engagement payload", err.Error())
		return
	}

	if err := h.entryService.RecordEngagement(entryID, req.Views, req.Likes, req.Comments, req.Shares); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "engagement recorded",
	})
}

// --- Moderation queue ---

// GET /moderation/contests/:id/entries
func (h *EntryHandler) ModerationQueue(c *gin.Context) {
	contestID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)
	status := models.EntryStatus(c.Query("status"))

	entries, total, err := h.entryService.ListEntries(contestID, params, status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(entries, total, params))
}

// POST /moderation/entries/:id/approve
func (h *EntryHandler) Approve(c *gin.Context) {
	h.moderate(c, i18n.KeyEntryApproved, h.entryService.ApproveEntry)
}

// POST /moderation/entries/:id/reject
func (h *EntryHandler) Reject(c *gin.Context) {
	h.moderate(c, i18n.KeyEntryRejected, h.entryService.RejectEntry)
}

// POST /moderation/entries/:id/flag
func (h *EntryHandler) Flag(c *gin.Context) {
	h.moderate(c, i18n.KeyEntryFlagged, h.entryService.FlagEntry)
}

// POST /moderation/entries/:id/return
func (h *EntryHandler) ReturnForReview(c *gin.Context) {
	h.moderate(c, i18n.KeyEntrySubmitted, h.entryService.ReturnForReview)
}

func (h *EntryHandler) moderate(c *gin.Context, messageKey string, action func(moderatorID, entryID uuid.UUID, notes string) (*models.ContestEntry, error)) {
	lang := utils.GetLangFromContext(c)

	moderatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ModerateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	entry, err := action(moderatorID, entryID, req.Notes)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"entry":   entry,
	})
}

// POST /moderation/entries/:id/score
func (h *EntryHandler) Score(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	judgeID, ok := currentUserID(c)
	if !ok {
		return
	}
	entryID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ScoreEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	entry, err := h.entryService.SetJudgeScore(judgeID, entryID, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEntryScored),
		"entry":   entry,
	})
}
