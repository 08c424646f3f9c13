// internal/handlers/video.go
package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/isabitv/isabitv-backend/internal/i18n"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/services"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type VideoHandler struct {
	videoService *services.VideoService
}

func NewVideoHandler(videoService *services.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// POST /videos
// Multipart upload: the "video" part carries the file, the "metadata" part
// carries the JSON document describing it.
func (h *VideoHandler) Upload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	creatorID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("video")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "video"), nil)
		return
	}
	defer file.Close()

	var req services.UploadVideoRequest
	if metadata := c.PostForm("metadata"); metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &req); err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "metadata"), err.Error())
			return
		}
	} else {
		req.Title = c.PostForm("title")
		req.Description = c.PostForm("description")
		req.Category = c.PostForm("category")
	}

	video, err := h.videoService.Upload(creatorID, file, header, &req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVideoUploaded),
		"video":   video,
	})
}

// GET /videos
func (h *VideoHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	videos, total, err := h.videoService.ListVideos(params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(videos, total, params))
}

// GET /videos/:id
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	video, err := h.videoService.GetVideo(videoID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"video": video,
	})
}

// GET /creators/:id/videos
func (h *VideoHandler) ListByCreator(c *gin.Context) {
	creatorID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	videos, total, err := h.videoService.ListByCreator(creatorID, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(videos, total, params))
}

// POST /videos/:id/engagement
func (h *VideoHandler) RecordEngagement(c *gin.Context) {
	videoID, ok := pathUUID(c, "id")
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

	if err := h.videoService.RecordEngagement(videoID, req.Views, req.Likes, req.Comments, req.Shares); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "engagement recorded",
	})
}

// DELETE /videos/:id
func (h *VideoHandler) Delete(c *gin.Context) {
	requesterID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)

	if err := h.videoService.DeleteVideo(videoID, requesterID, models.UserRole(role)); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "video deleted",
	})
}
