// internal/services/video_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/metrics"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

// videoStore is the metadata persistence half of the two-phase upload.
type videoStore interface {
	Create(video *models.Video) error
}

type gormVideoStore struct {
	db *gorm.DB
}

func (s gormVideoStore) Create(video *models.Video) error {
	return s.db.Create(video).Error
}

type VideoService struct {
	db      *gorm.DB
	store   videoStore
	storage *StorageService
}

type UploadVideoRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty"`
	Duration    int      `json:"duration,omitempty" validate:"omitempty,min=0"`
}

func NewVideoService(db *gorm.DB, storage *StorageService) *VideoService {
	return &VideoService{db: db, store: gormVideoStore{db: db}, storage: storage}
}

// NewVideoServiceWithStore injects the metadata store directly.
func NewVideoServiceWithStore(db *gorm.DB, store videoStore, storage *StorageService) *VideoService {
	return &VideoService{db: db, store: store, storage: storage}
}

// Upload stores the binary first, then inserts the metadata row. If the
// insert fails the object is deleted again so storage never holds orphans.
func (s *VideoService) Upload(creatorID uuid.UUID, file multipart.File, header *multipart.FileHeader, req *UploadVideoRequest) (*models.Video, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := ValidateVideoFile(file); err != nil {
		return nil, apperrors.NewValidation("file", err.Error())
	}

	result, err := s.storage.Upload(creatorID, file, header, s.storage.VideoUploadOptions())
	if err != nil {
		return nil, fmt.Errorf("upload: %w: %v", apperrors.ErrExternalService, err)
	}

	video := &models.Video{
		CreatorID:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		StorageKey:  result.Key,
		URL:         result.URL,
		Duration:    req.Duration,
		SizeBytes:   result.Size,
		MimeType:    result.MimeType,
		Published:   true,
	}

	if err := s.store.Create(video); err != nil {
		// Compensate: the object must not outlive a failed metadata insert
		if delErr := s.storage.Delete(result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).
				Error("Failed to remove orphaned object after metadata insert failure")
		}
		metrics.UploadRollbacks.Inc()
		return nil, fmt.Errorf("failed to save video metadata: %w", err)
	}

	return video, nil
}

func (s *VideoService) GetVideo(videoID uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := s.db.Preload("Creator").First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("video %s: %w", videoID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &video, nil
}

func (s *VideoService) ListVideos(params utils.PaginationParams) ([]models.Video, int64, error) {
	query := s.db.Model(&models.Video{}).Where("published = ?", true)

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []models.Video
	query = utils.ApplySort(query, params, []string{"created_at", "views", "likes", "title"})
	if err := utils.ApplyPagination(query, params).Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch videos: %w", err)
	}

	return videos, total, nil
}

func (s *VideoService) ListByCreator(creatorID uuid.UUID, params utils.PaginationParams) ([]models.Video, int64, error) {
	query := s.db.Model(&models.Video{}).Where("creator_id = ?", creatorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	var videos []models.Video
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch videos: %w", err)
	}

	return videos, total, nil
}

// RecordEngagement applies externally supplied engagement deltas. Counters
// only grow.
func (s *VideoService) RecordEngagement(videoID uuid.UUID, views, likes, comments, shares int64) error {
	if views < 0 || likes < 0 || comments < 0 || shares < 0 {
		return apperrors.NewValidation("engagement", "engagement deltas cannot be negative")
	}

	result := s.db.Model(&models.Video{}).Where("id = ?", videoID).Updates(map[string]interface{}{
		"views":    gorm.Expr("views + ?", views),
		"likes":    gorm.Expr("likes + ?", likes),
		"comments": gorm.Expr("comments + ?", comments),
		"shares":   gorm.Expr("shares + ?", shares),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to record engagement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("video %s: %w", videoID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteVideo removes the metadata row and then the stored object.
func (s *VideoService) DeleteVideo(videoID, requesterID uuid.UUID, requesterRole models.UserRole) error {
	var video models.Video
	if err := s.db.First(&video, videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("video %s: %w", videoID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if video.CreatorID != requesterID && !requesterRole.Satisfies(models.RoleAdmin) {
		return apperrors.ErrForbidden
	}

	if err := s.db.Delete(&video).Error; err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	if err := s.storage.Delete(video.StorageKey); err != nil {
		logrus.WithError(err).WithField("key", video.StorageKey).
			Warn("Failed to delete stored object for removed video")
	}

	return nil
}
