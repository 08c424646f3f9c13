// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type UserService struct {
	db             *gorm.DB
	storageService *StorageService
}

type UpdateUserProfileRequest struct {
	Username    string                 `json:"username,omitempty" validate:"omitempty,username"`
	FirstName   string                 `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    string                 `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Bio         string                 `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty"`
}

func NewUserService(db *gorm.DB, storageService *StorageService) *UserService {
	return &UserService{
		db:             db,
		storageService: storageService,
	}
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetPublicProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Select("id, username, first_name, last_name, role, is_verified, avatar_url, bio, total_views, total_likes, subscribers, created_at").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Check username uniqueness if updating
	if req.Username != "" && req.Username != user.Username {
		var existingUser models.User
		if err := s.db.Where("username = ? AND id != ?", req.Username, userID).First(&existingUser).Error; err == nil {
			return nil, apperrors.NewValidation("username", "username already taken")
		}
		user.Username = req.Username
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if req.ProfileData != nil {
		if user.ProfileData == nil {
			user.ProfileData = make(models.JSONB)
		}
		// Merge with existing profile data
		for key, value := range req.ProfileData {
			user.ProfileData[key] = value
		}
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, nil
}

func (s *UserService) UploadAvatar(userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	result, err := s.storageService.Upload(userID, file, header, s.storageService.ImageUploadOptions())
	if err != nil {
		return nil, err
	}

	user.AvatarURL = result.URL
	if err := s.db.Save(&user).Error; err != nil {
		// Orphaned object, remove it
		if delErr := s.storageService.Delete(result.Key); delErr != nil {
			return nil, fmt.Errorf("failed to update avatar: %w", err)
		}
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return &user, nil
}

// ListCreators returns creators ordered by subscriber count for the
// discovery surface.
func (s *UserService) ListCreators(params utils.PaginationParams) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleCreator, models.UserStatusActive)

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", search, search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count creators: %w", err)
	}

	query = query.
		Select("id, username, first_name, last_name, is_verified, avatar_url, bio, total_views, total_likes, subscribers, created_at").
		Order("subscribers DESC")

	if err := utils.ApplyPagination(query, params).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list creators: %w", err)
	}

	return users, total, nil
}

func (s *UserService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return apperrors.ErrUnauthorized
	}

	// Refuse while the creator still has entries in live contests
	var activeEntries int64
	s.db.Model(&models.ContestEntry{}).
		Joins("JOIN contests ON contests.id = contest_entries.contest_id").
		Where("contest_entries.creator_id = ? AND contests.status IN ?", userID,
			[]models.ContestStatus{models.ContestStatusActive, models.ContestStatusJudging}).
		Count(&activeEntries)

	if activeEntries > 0 {
		return apperrors.NewValidation("account", "cannot delete account with entries in active contests")
	}

	// Soft delete
	if err := s.db.Delete(&user).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}
