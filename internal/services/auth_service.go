// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type AuthService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	notificationService *NotificationService
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username  string          `json:"username" validate:"required,username"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,strong_password"`
	FirstName string          `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  string          `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Role      models.UserRole `json:"role" validate:"required"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strong_password"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *AuthService {
	return &AuthService{
		db:                  db,
		cfg:                 cfg,
		notificationService: notificationService,
	}
}

func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Check if user already exists
	var existingUser models.User
	if err := s.db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existingUser).Error; err == nil {
		if existingUser.Email == req.Email {
			return nil, apperrors.NewValidation("email", "user with this email already exists")
		}
		return nil, apperrors.NewValidation("username", "username already taken")
	}

	// Self-registration only grants viewer or creator; staff roles are
	// assigned by a super admin afterwards.
	if req.Role != models.RoleViewer && req.Role != models.RoleCreator {
		return nil, apperrors.NewValidation("role", "invalid role")
	}

	// Create new user
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Status:    models.UserStatusActive,
	}

	// Set password
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Save user
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	// Send verification email (async)
	go s.sendVerificationEmail(user)

	return tokens, nil
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewValidation("credentials", "invalid email or password")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrForbidden
	}

	// Verify password
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.NewValidation("credentials", "invalid email or password")
	}

	// Update last login time
	now := time.Now()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	// Validate refresh token
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrForbidden
	}

	return s.issueTokens(user)
}

// GetOrCreateProfile resolves the profile for a user id, inserting a stub
// row on first sight (upsert-on-miss).
func (s *AuthService) GetOrCreateProfile(userID uuid.UUID, email string) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, userID).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	user = models.User{
		BaseModel: models.BaseModel{ID: userID},
		Username:  fmt.Sprintf("user_%s", userID.String()[:8]),
		Email:     email,
		Role:      models.RoleViewer,
		Status:    models.UserStatusActive,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &user, nil
}

func (s *AuthService) ForgotPassword(req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Do not reveal whether the email exists
		return nil
	}

	token, err := utils.GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if user.ProfileData == nil {
		user.ProfileData = make(models.JSONB)
	}
	user.ProfileData["reset_token"] = utils.HashString(token)
	user.ProfileData["reset_requested_at"] = time.Now()
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	go s.notificationService.SendPasswordResetEmail(&user, token)
	return nil
}

func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	hashed := utils.HashString(req.Token)
	var user models.User
	if err := s.db.Where("profile_data->>'reset_token' = ?", hashed).First(&user).Error; err != nil {
		return apperrors.NewValidation("token", "invalid or expired reset token")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	delete(user.ProfileData, "reset_token")
	delete(user.ProfileData, "reset_requested_at")
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *AuthService) VerifyEmail(token string) error {
	hashed := utils.HashString(token)
	var user models.User
	if err := s.db.Where("profile_data->>'email_token' = ?", hashed).First(&user).Error; err != nil {
		return apperrors.NewValidation("token", "invalid verification token")
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	delete(user.ProfileData, "email_token")
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Username,
		string(user.Role),
		user.IsVerified,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

func (s *AuthService) sendVerificationEmail(user *models.User) {
	token, err := utils.GenerateVerificationCode()
	if err != nil {
		return
	}

	if user.ProfileData == nil {
		user.ProfileData = make(models.JSONB)
	}
	user.ProfileData["email_token"] = utils.HashString(token)
	s.db.Save(user)

	s.notificationService.SendWelcomeEmail(user, token)
}
