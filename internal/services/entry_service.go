// internal/services/entry_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/database"
	"github.com/isabitv/isabitv-backend/internal/metrics"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type EntryService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type SubmitEntryRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Description string   `json:"description,omitempty"`
	VideoURL    string   `json:"video_url" validate:"required,url"`
	Thumbnail   string   `json:"thumbnail,omitempty" validate:"omitempty,url"`
	Duration    int      `json:"duration" validate:"required,min=1"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty" validate:"omitempty,dive,hashtag"`
	IsTeamEntry bool     `json:"is_team_entry,omitempty"`
	TeamMembers []string `json:"team_members,omitempty"`
}

type ModerateEntryRequest struct {
	Notes string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ScoreEntryRequest struct {
	Score float64 `json:"score" validate:"min=0,max=10"`
	Notes string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func NewEntryService(db *gorm.DB, notificationService *NotificationService) *EntryService {
	return &EntryService{
		db:                  db,
		notificationService: notificationService,
	}
}

// SubmitEntry files a creator's entry into an active contest. The entry
// slot is claimed with a guarded counter update so two concurrent
// submissions cannot both take the last slot.
func (s *EntryService) SubmitEntry(creator *models.User, contestID uuid.UUID, req *SubmitEntryRequest) (*models.ContestEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var contest models.Contest
	if err := s.db.First(&contest, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !contest.SubmissionOpen(time.Now()) {
		if contest.Status == models.ContestStatusActive && contest.CurrentEntries >= contest.MaxEntries {
			return nil, apperrors.ErrContestFull
		}
		return nil, apperrors.NewValidation("contest", "contest is not accepting submissions")
	}

	if req.IsTeamEntry && !contest.AllowTeams {
		return nil, apperrors.NewValidation("is_team_entry", "contest does not allow team entries")
	}

	if contest.MinVideoDuration > 0 && req.Duration < contest.MinVideoDuration*60 {
		return nil, apperrors.NewValidation("duration", "video is shorter than the contest minimum")
	}
	if contest.MaxVideoDuration > 0 && req.Duration > contest.MaxVideoDuration*60 {
		return nil, apperrors.NewValidation("duration", "video is longer than the contest maximum")
	}

	var existing int64
	if err := s.db.Model(&models.ContestEntry{}).
		Where("contest_id = ? AND creator_id = ?", contestID, creator.ID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.NewValidation("contest", "you have already entered this contest")
	}

	entry := &models.ContestEntry{
		ContestID:   contestID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		Category:    req.Category,
		Tags:        pq.StringArray(req.Tags),
		Hashtags:    pq.StringArray(req.Hashtags),

		CreatorID:       creator.ID,
		CreatorName:     creator.FirstName + " " + creator.LastName,
		CreatorUsername: creator.Username,
		CreatorVerified: creator.IsVerified,
		CreatorAvatar:   creator.AvatarURL,
		CreatorEmail:    creator.Email,

		Status:      models.EntryStatusPending,
		IsTeamEntry: req.IsTeamEntry,
		TeamMembers: pq.StringArray(req.TeamMembers),
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		// Claim a slot. The WHERE clause is the capacity guard.
		result := tx.Model(&models.Contest{}).
			Where("id = ? AND status = ? AND current_entries < max_entries",
				contestID, models.ContestStatusActive).
			Update("current_entries", gorm.Expr("current_entries + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to claim entry slot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrContestFull
		}

		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notificationService.SendEntrySubmittedNotification(entry, &contest); err != nil {
		// Notification failure does not undo the submission
		logrus.WithError(err).Warn("Failed to send entry submission notification")
	}

	return entry, nil
}

func (s *EntryService) GetEntry(entryID uuid.UUID) (*models.ContestEntry, error) {
	var entry models.ContestEntry
	if err := s.db.First(&entry, "id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &entry, nil
}

// ListEntries is the moderation queue view, every status visible.
func (s *EntryService) ListEntries(contestID uuid.UUID, params utils.PaginationParams, status models.EntryStatus) ([]models.ContestEntry, int64, error) {
	var entries []models.ContestEntry
	var total int64

	query := s.db.Model(&models.ContestEntry{}).Where("contest_id = ?", contestID)

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR creator_username ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "views", "likes", "judge_score"})
	if err := utils.ApplyPagination(query, params).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, total, nil
}

// ListPublicEntries shows only approved entries and winners.
func (s *EntryService) ListPublicEntries(contestID uuid.UUID, params utils.PaginationParams) ([]models.ContestEntry, int64, error) {
	var entries []models.ContestEntry
	var total int64

	query := s.db.Model(&models.ContestEntry{}).
		Where("contest_id = ? AND status IN ?", contestID,
			[]models.EntryStatus{models.EntryStatusApproved, models.EntryStatusWinner})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "views", "likes"})
	if err := utils.ApplyPagination(query, params).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, total, nil
}

func (s *EntryService) ListByCreator(creatorID uuid.UUID, params utils.PaginationParams) ([]models.ContestEntry, int64, error) {
	var entries []models.ContestEntry
	var total int64

	query := s.db.Model(&models.ContestEntry{}).Where("creator_id = ?", creatorID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, total, nil
}

func (s *EntryService) ApproveEntry(moderatorID, entryID uuid.UUID, notes string) (*models.ContestEntry, error) {
	return s.moderate(moderatorID, entryID, models.EntryStatusApproved, notes, "entry_approved")
}

func (s *EntryService) RejectEntry(moderatorID, entryID uuid.UUID, notes string) (*models.ContestEntry, error) {
	return s.moderate(moderatorID, entryID, models.EntryStatusRejected, notes, "entry_rejected")
}

func (s *EntryService) FlagEntry(moderatorID, entryID uuid.UUID, notes string) (*models.ContestEntry, error) {
	return s.moderate(moderatorID, entryID, models.EntryStatusFlagged, notes, "entry_flagged")
}

// ReturnForReview sends a flagged entry back to the pending queue.
func (s *EntryService) ReturnForReview(moderatorID, entryID uuid.UUID, notes string) (*models.ContestEntry, error) {
	return s.moderate(moderatorID, entryID, models.EntryStatusPending, notes, "entry_returned")
}

func (s *EntryService) moderate(moderatorID, entryID uuid.UUID, to models.EntryStatus, notes, action string) (*models.ContestEntry, error) {
	entry, err := s.GetEntry(entryID)
	if err != nil {
		return nil, err
	}

	from := entry.Status
	if err := entry.Moderate(to, notes); err != nil {
		return nil, err
	}

	if err := s.db.Model(entry).Updates(map[string]interface{}{
		"status":          entry.Status,
		"moderator_notes": entry.ModeratorNotes,
	}).Error; err != nil {
		entry.Status = from
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	metrics.EntryModerations.WithLabelValues(string(to)).Inc()

	go writeAuditLog(s.db, moderatorID, action, "contest_entry", &entry.ID,
		map[string]interface{}{"status": string(from)},
		map[string]interface{}{"status": string(to), "notes": notes})

	s.notifyModeration(entry, from, to, notes)

	return entry, nil
}

func (s *EntryService) notifyModeration(entry *models.ContestEntry, from, to models.EntryStatus, notes string) {
	var contest models.Contest
	if err := s.db.First(&contest, "id = ?", entry.ContestID).Error; err != nil {
		return
	}

	switch to {
	case models.EntryStatusApproved:
		if from == models.EntryStatusPending {
			if err := s.notificationService.SendEntryApprovedNotification(entry, &contest); err != nil {
				logrus.WithError(err).Warn("Failed to send entry approval notification")
			}
		}
	case models.EntryStatusRejected:
		if err := s.notificationService.SendEntryRejectedNotification(entry, &contest, notes); err != nil {
			logrus.WithError(err).Warn("Failed to send entry rejection notification")
		}
	}
}

// SetJudgeScore records a judge's score while the entry is still scorable.
func (s *EntryService) SetJudgeScore(judgeID, entryID uuid.UUID, req *ScoreEntryRequest) (*models.ContestEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	entry, err := s.GetEntry(entryID)
	if err != nil {
		return nil, err
	}

	if !entry.CanScore() {
		return nil, apperrors.InvalidTransition("entry", string(entry.Status), "scored")
	}

	score := req.Score
	entry.JudgeScore = &score
	entry.JudgeNotes = req.Notes

	if err := s.db.Model(entry).Updates(map[string]interface{}{
		"judge_score": entry.JudgeScore,
		"judge_notes": entry.JudgeNotes,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update entry score: %w", err)
	}

	go writeAuditLog(s.db, judgeID, "entry_scored", "contest_entry", &entry.ID, nil, map[string]interface{}{
		"score": score,
	})

	return entry, nil
}

// RecordEngagement ingests externally-counted engagement for an entry.
func (s *EntryService) RecordEngagement(entryID uuid.UUID, views, likes, comments, shares int64) error {
	if views < 0 || likes < 0 || comments < 0 || shares < 0 {
		return apperrors.NewValidation("engagement", "engagement deltas cannot be negative")
	}

	result := s.db.Model(&models.ContestEntry{}).
		Where("id = ?", entryID).
		Updates(map[string]interface{}{
			"views":    gorm.Expr("views + ?", views),
			"likes":    gorm.Expr("likes + ?", likes),
			"comments": gorm.Expr("comments + ?", comments),
			"shares":   gorm.Expr("shares + ?", shares),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record engagement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
