// internal/services/payout_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/transfer"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/database"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type PayoutService struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *NotificationService
}

type RequestPayoutRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	StripeAccountID string  `json:"stripe_account_id" validate:"required"`
}

type RejectPayoutRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func NewPayoutService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *PayoutService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PayoutService{
		db:                  db,
		config:              cfg,
		notificationService: notificationService,
	}
}

// CreditEarning records revenue for a creator and bumps the aggregate.
func (s *PayoutService) CreditEarning(userID uuid.UUID, videoID *uuid.UUID, amount float64, source, period string) (*models.Earning, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidation("amount", "earning amount must be positive")
	}

	earning := &models.Earning{
		UserID:  userID,
		VideoID: videoID,
		Amount:  amount,
		Source:  source,
		Period:  period,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(earning).Error; err != nil {
			return fmt.Errorf("failed to record earning: %w", err)
		}

		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("earnings_total", gorm.Expr("earnings_total + ?", amount))
		if result.Error != nil {
			return fmt.Errorf("failed to update earnings: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return earning, nil
}

// RequestPayout files a payout request against the creator's outstanding
// balance. The amount must clear the platform minimum and cannot exceed
// what is owed.
func (s *PayoutService) RequestPayout(userID uuid.UUID, req *RequestPayoutRequest) (*models.Payout, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Amount < s.config.Payment.MinimumPayout {
		return nil, apperrors.NewValidation("amount",
			fmt.Sprintf("minimum payout is %.2f", s.config.Payment.MinimumPayout))
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Pending requests count against the balance too
	var pending float64
	s.db.Model(&models.Payout{}).
		Where("user_id = ? AND status = ?", userID, models.PayoutStatusRequested).
		Select("COALESCE(SUM(amount), 0)").Scan(&pending)

	if req.Amount > user.Balance()-pending {
		return nil, apperrors.NewValidation("amount", "amount exceeds available balance")
	}

	payout := &models.Payout{
		UserID:          userID,
		Amount:          req.Amount,
		Status:          models.PayoutStatusRequested,
		StripeAccountID: req.StripeAccountID,
	}

	if err := s.db.Create(payout).Error; err != nil {
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}

	return payout, nil
}

// ProcessPayout executes an approved payout through a Stripe transfer and
// settles the creator's paid aggregate in the same transaction as the
// status change.
func (s *PayoutService) ProcessPayout(adminID, payoutID uuid.UUID) (*models.Payout, error) {
	payout, err := s.getPayout(payoutID)
	if err != nil {
		return nil, err
	}

	if payout.Status != models.PayoutStatusRequested {
		return nil, apperrors.InvalidTransition("payout", string(payout.Status), string(models.PayoutStatusPaid))
	}

	params := &stripe.TransferParams{
		Amount:      stripe.Int64(int64(payout.Amount * 100)),
		Currency:    stripe.String("usd"),
		Destination: stripe.String(payout.StripeAccountID),
	}
	params.AddMetadata("payout_id", payout.ID.String())

	tr, err := transfer.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe transfer failed: %v", apperrors.ErrExternalService, err)
	}

	now := time.Now()
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payout{}).Where("id = ?", payoutID).Updates(map[string]interface{}{
			"status":       models.PayoutStatusPaid,
			"transfer_ref": tr.ID,
			"processed_by": adminID,
			"processed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update payout: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", payout.UserID).
			Update("earnings_paid", gorm.Expr("earnings_paid + ?", payout.Amount)).Error; err != nil {
			return fmt.Errorf("failed to settle earnings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	payout.Status = models.PayoutStatusPaid
	payout.TransferRef = tr.ID
	payout.ProcessedBy = &adminID
	payout.ProcessedAt = &now

	go writeAuditLog(s.db, adminID, "payout_processed", "payout", &payout.ID, nil, map[string]interface{}{
		"amount":       payout.Amount,
		"transfer_ref": tr.ID,
	})

	s.notifyPayout(payout)

	return payout, nil
}

// RejectPayout declines a requested payout with a reason.
func (s *PayoutService) RejectPayout(adminID, payoutID uuid.UUID, req *RejectPayoutRequest) (*models.Payout, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	payout, err := s.getPayout(payoutID)
	if err != nil {
		return nil, err
	}

	if payout.Status != models.PayoutStatusRequested {
		return nil, apperrors.InvalidTransition("payout", string(payout.Status), string(models.PayoutStatusRejected))
	}

	now := time.Now()
	if err := s.db.Model(&models.Payout{}).Where("id = ?", payoutID).Updates(map[string]interface{}{
		"status":        models.PayoutStatusRejected,
		"reject_reason": req.Reason,
		"processed_by":  adminID,
		"processed_at":  now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to reject payout: %w", err)
	}

	payout.Status = models.PayoutStatusRejected
	payout.RejectReason = req.Reason
	payout.ProcessedBy = &adminID
	payout.ProcessedAt = &now

	go writeAuditLog(s.db, adminID, "payout_rejected", "payout", &payout.ID, nil, map[string]interface{}{
		"reason": req.Reason,
	})

	s.notifyPayout(payout)

	return payout, nil
}

func (s *PayoutService) notifyPayout(payout *models.Payout) {
	var user models.User
	if err := s.db.First(&user, "id = ?", payout.UserID).Error; err != nil {
		return
	}
	if err := s.notificationService.SendPayoutProcessedNotification(&user, payout); err != nil {
		logrus.WithError(err).Warn("Failed to send payout notification")
	}
}

func (s *PayoutService) getPayout(payoutID uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	if err := s.db.First(&payout, "id = ?", payoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &payout, nil
}

func (s *PayoutService) ListPayouts(params utils.PaginationParams, status models.PayoutStatus) ([]models.Payout, int64, error) {
	var payouts []models.Payout
	var total int64

	query := s.db.Model(&models.Payout{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&payouts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payouts: %w", err)
	}

	return payouts, total, nil
}

func (s *PayoutService) ListUserPayouts(userID uuid.UUID, params utils.PaginationParams) ([]models.Payout, int64, error) {
	var payouts []models.Payout
	var total int64

	query := s.db.Model(&models.Payout{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payouts: %w", err)
	}

	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&payouts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payouts: %w", err)
	}

	return payouts, total, nil
}

// EarningsSummary backs the creator earnings dashboard.
func (s *PayoutService) EarningsSummary(userID uuid.UUID) (map[string]interface{}, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var pending float64
	s.db.Model(&models.Payout{}).
		Where("user_id = ? AND status = ?", userID, models.PayoutStatusRequested).
		Select("COALESCE(SUM(amount), 0)").Scan(&pending)

	return map[string]interface{}{
		"earnings_total":  user.EarningsTotal,
		"earnings_paid":   user.EarningsPaid,
		"balance":         user.Balance(),
		"pending_payouts": pending,
		"minimum_payout":  s.config.Payment.MinimumPayout,
	}, nil
}
