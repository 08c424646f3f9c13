// internal/services/contest_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/metrics"
	"github.com/isabitv/isabitv-backend/internal/models"
	"github.com/isabitv/isabitv-backend/internal/utils"
)

type ContestService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type CreateContestRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty" validate:"omitempty,dive,hashtag"`

	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	SubmissionDeadline time.Time `json:"submission_deadline" validate:"required"`

	MaxEntries int `json:"max_entries" validate:"required,min=1"`

	PrizeFirst          string `json:"prize_first" validate:"required,max=255"`
	PrizeSecond         string `json:"prize_second" validate:"required,max=255"`
	PrizeThird          string `json:"prize_third" validate:"required,max=255"`
	ParticipationReward string `json:"participation_reward,omitempty" validate:"omitempty,max=255"`

	SponsorName    string `json:"sponsor_name,omitempty" validate:"omitempty,max=100"`
	SponsorLogo    string `json:"sponsor_logo,omitempty" validate:"omitempty,url"`
	SponsorWebsite string `json:"sponsor_website,omitempty" validate:"omitempty,url"`

	Rules           []string `json:"rules,omitempty"`
	Eligibility     string   `json:"eligibility,omitempty"`
	JudgingCriteria []string `json:"judging_criteria,omitempty"`

	FeaturedPrize    bool `json:"featured_prize,omitempty"`
	AllowTeams       bool `json:"allow_teams,omitempty"`
	MinVideoDuration int  `json:"min_video_duration,omitempty" validate:"omitempty,min=0"`
	MaxVideoDuration int  `json:"max_video_duration,omitempty" validate:"omitempty,min=0"`
}

type UpdateContestRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty" validate:"omitempty,dive,hashtag"`

	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	SubmissionDeadline *time.Time `json:"submission_deadline,omitempty"`

	MaxEntries *int `json:"max_entries,omitempty" validate:"omitempty,min=1"`

	PrizeFirst          string `json:"prize_first,omitempty" validate:"omitempty,max=255"`
	PrizeSecond         string `json:"prize_second,omitempty" validate:"omitempty,max=255"`
	PrizeThird          string `json:"prize_third,omitempty" validate:"omitempty,max=255"`
	ParticipationReward string `json:"participation_reward,omitempty" validate:"omitempty,max=255"`

	SponsorName    string `json:"sponsor_name,omitempty" validate:"omitempty,max=100"`
	SponsorLogo    string `json:"sponsor_logo,omitempty" validate:"omitempty,url"`
	SponsorWebsite string `json:"sponsor_website,omitempty" validate:"omitempty,url"`

	Rules           []string `json:"rules,omitempty"`
	Eligibility     string   `json:"eligibility,omitempty"`
	JudgingCriteria []string `json:"judging_criteria,omitempty"`

	FeaturedPrize    *bool `json:"featured_prize,omitempty"`
	AllowTeams       *bool `json:"allow_teams,omitempty"`
	MinVideoDuration *int  `json:"min_video_duration,omitempty" validate:"omitempty,min=0"`
	MaxVideoDuration *int  `json:"max_video_duration,omitempty" validate:"omitempty,min=0"`
}

func NewContestService(db *gorm.DB, notificationService *NotificationService) *ContestService {
	return &ContestService{
		db:                  db,
		notificationService: notificationService,
	}
}

// validateSchedule enforces the date ordering every contest must hold:
// start before end, submission deadline inside [start, end].
func validateSchedule(start, end, deadline time.Time) error {
	if !start.Before(end) {
		return apperrors.NewValidation("end_date", "end date must be after start date")
	}
	if deadline.Before(start) {
		return apperrors.NewValidation("submission_deadline", "submission deadline cannot be before start date")
	}
	if deadline.After(end) {
		return apperrors.NewValidation("submission_deadline", "submission deadline cannot be after end date")
	}
	return nil
}

func (s *ContestService) CreateContest(adminID uuid.UUID, req *CreateContestRequest) (*models.Contest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateSchedule(req.StartDate, req.EndDate, req.SubmissionDeadline); err != nil {
		return nil, err
	}

	if req.MaxVideoDuration > 0 && req.MinVideoDuration > req.MaxVideoDuration {
		return nil, apperrors.NewValidation("min_video_duration", "minimum duration exceeds maximum duration")
	}

	contest := &models.Contest{
		Title:               req.Title,
		Description:         req.Description,
		Category:            req.Category,
		Tags:                pq.StringArray(req.Tags),
		Hashtags:            pq.StringArray(req.Hashtags),
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		SubmissionDeadline:  req.SubmissionDeadline,
		MaxEntries:          req.MaxEntries,
		PrizeFirst:          req.PrizeFirst,
		PrizeSecond:         req.PrizeSecond,
		PrizeThird:          req.PrizeThird,
		ParticipationReward: req.ParticipationReward,
		SponsorName:         req.SponsorName,
		SponsorLogo:         req.SponsorLogo,
		SponsorWebsite:      req.SponsorWebsite,
		Rules:               pq.StringArray(req.Rules),
		Eligibility:         req.Eligibility,
		JudgingCriteria:     pq.StringArray(req.JudgingCriteria),
		Status:              models.ContestStatusDraft,
		FeaturedPrize:       req.FeaturedPrize,
		AllowTeams:          req.AllowTeams,
		MinVideoDuration:    req.MinVideoDuration,
		MaxVideoDuration:    req.MaxVideoDuration,
		CreatedBy:           adminID,
	}

	if err := s.db.Create(contest).Error; err != nil {
		return nil, fmt.Errorf("failed to create contest: %w", err)
	}

	go writeAuditLog(s.db, adminID, "contest_created", "contest", &contest.ID, nil, map[string]interface{}{
		"title":    contest.Title,
		"category": contest.Category,
	})

	return contest, nil
}

// UpdateContest edits contest details. Structural fields are only editable
// while the contest is a draft; a live contest accepts no changes.
func (s *ContestService) UpdateContest(adminID, contestID uuid.UUID, req *UpdateContestRequest) (*models.Contest, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contest, err := s.GetContest(contestID)
	if err != nil {
		return nil, err
	}

	if contest.Status != models.ContestStatusDraft {
		return nil, apperrors.NewValidation("status", "only draft contests can be edited")
	}

	if req.Title != "" {
		contest.Title = req.Title
	}
	if req.Description != "" {
		contest.Description = req.Description
	}
	if req.Category != "" {
		contest.Category = req.Category
	}
	if req.Tags != nil {
		contest.Tags = pq.StringArray(req.Tags)
	}
	if req.Hashtags != nil {
		contest.Hashtags = pq.StringArray(req.Hashtags)
	}
	if req.StartDate != nil {
		contest.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		contest.EndDate = *req.EndDate
	}
	if req.SubmissionDeadline != nil {
		contest.SubmissionDeadline = *req.SubmissionDeadline
	}
	if req.MaxEntries != nil {
		contest.MaxEntries = *req.MaxEntries
	}
	if req.PrizeFirst != "" {
		contest.PrizeFirst = req.PrizeFirst
	}
	if req.PrizeSecond != "" {
		contest.PrizeSecond = req.PrizeSecond
	}
	if req.PrizeThird != "" {
		contest.PrizeThird = req.PrizeThird
	}
	if req.ParticipationReward != "" {
		contest.ParticipationReward = req.ParticipationReward
	}
	if req.SponsorName != "" {
		contest.SponsorName = req.SponsorName
	}
	if req.SponsorLogo != "" {
		contest.SponsorLogo = req.SponsorLogo
	}
	if req.SponsorWebsite != "" {
		contest.SponsorWebsite = req.SponsorWebsite
	}
	if req.Rules != nil {
		contest.Rules = pq.StringArray(req.Rules)
	}
	if req.Eligibility != "" {
		contest.Eligibility = req.Eligibility
	}
	if req.JudgingCriteria != nil {
		contest.JudgingCriteria = pq.StringArray(req.JudgingCriteria)
	}
	if req.FeaturedPrize != nil {
		contest.FeaturedPrize = *req.FeaturedPrize
	}
	if req.AllowTeams != nil {
		contest.AllowTeams = *req.AllowTeams
	}
	if req.MinVideoDuration != nil {
		contest.MinVideoDuration = *req.MinVideoDuration
	}
	if req.MaxVideoDuration != nil {
		contest.MaxVideoDuration = *req.MaxVideoDuration
	}

	// Dates are re-checked as a whole after the partial update
	if err := validateSchedule(contest.StartDate, contest.EndDate, contest.SubmissionDeadline); err != nil {
		return nil, err
	}
	if contest.MaxVideoDuration > 0 && contest.MinVideoDuration > contest.MaxVideoDuration {
		return nil, apperrors.NewValidation("min_video_duration", "minimum duration exceeds maximum duration")
	}

	if err := s.db.Save(contest).Error; err != nil {
		return nil, fmt.Errorf("failed to update contest: %w", err)
	}

	go writeAuditLog(s.db, adminID, "contest_updated", "contest", &contest.ID, nil, map[string]interface{}{
		"title": contest.Title,
	})

	return contest, nil
}

// Launch opens a draft contest for submissions.
func (s *ContestService) Launch(adminID, contestID uuid.UUID) (*models.Contest, error) {
	contest, err := s.GetContest(contestID)
	if err != nil {
		return nil, err
	}

	if time.Now().After(contest.SubmissionDeadline) {
		return nil, apperrors.NewValidation("submission_deadline", "submission deadline is already past")
	}

	return s.transition(adminID, contest, models.ContestStatusActive, "contest_launched")
}

// BeginJudging closes submissions and hands the contest to the judges.
// This is an explicit administrative action, the deadline alone does not
// move the contest.
func (s *ContestService) BeginJudging(adminID, contestID uuid.UUID) (*models.Contest, error) {
	contest, err := s.GetContest(contestID)
	if err != nil {
		return nil, err
	}

	return s.transition(adminID, contest, models.ContestStatusJudging, "contest_judging_started")
}

// Cancel aborts a draft or active contest. The reason is kept in the audit
// trail, not on the contest itself.
func (s *ContestService) Cancel(adminID, contestID uuid.UUID, reason string) (*models.Contest, error) {
	if reason == "" {
		return nil, apperrors.NewValidation("reason", "a reason is required to cancel a contest")
	}

	contest, err := s.GetContest(contestID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(adminID, contest, models.ContestStatusCancelled, "contest_cancelled")
	if err != nil {
		return nil, err
	}

	go writeAuditLog(s.db, adminID, "contest_cancel_reason", "contest", &contest.ID, nil, map[string]interface{}{
		"reason": reason,
	})

	return updated, nil
}

func (s *ContestService) transition(adminID uuid.UUID, contest *models.Contest, to models.ContestStatus, action string) (*models.Contest, error) {
	from := contest.Status
	if err := contest.Transition(to); err != nil {
		return nil, err
	}

	if err := s.db.Model(contest).Update("status", contest.Status).Error; err != nil {
		contest.Status = from
		return nil, fmt.Errorf("failed to update contest status: %w", err)
	}

	metrics.ContestTransitions.WithLabelValues(string(to)).Inc()

	go writeAuditLog(s.db, adminID, action, "contest", &contest.ID,
		map[string]interface{}{"status": string(from)},
		map[string]interface{}{"status": string(to)})

	return contest, nil
}

// DeleteContest removes a contest that never received entries. Anything
// with submissions must be cancelled instead so creator work stays
// accounted for.
func (s *ContestService) DeleteContest(adminID, contestID uuid.UUID) error {
	contest, err := s.GetContest(contestID)
	if err != nil {
		return err
	}

	var entryCount int64
	if err := s.db.Model(&models.ContestEntry{}).
		Where("contest_id = ?", contestID).
		Count(&entryCount).Error; err != nil {
		return fmt.Errorf("failed to count entries: %w", err)
	}

	if entryCount > 0 {
		return apperrors.ErrContestHasEntries
	}

	if err := s.db.Delete(contest).Error; err != nil {
		return fmt.Errorf("failed to delete contest: %w", err)
	}

	go writeAuditLog(s.db, adminID, "contest_deleted", "contest", &contestID, map[string]interface{}{
		"title":  contest.Title,
		"status": string(contest.Status),
	}, nil)

	return nil
}

func (s *ContestService) GetContest(contestID uuid.UUID) (*models.Contest, error) {
	var contest models.Contest
	if err := s.db.First(&contest, "id = ?", contestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &contest, nil
}

// ListContests returns contests for the admin surface, optionally filtered
// by status.
func (s *ContestService) ListContests(params utils.PaginationParams, status models.ContestStatus) ([]models.Contest, int64, error) {
	var contests []models.Contest
	var total int64

	query := s.db.Model(&models.Contest{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contests: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "start_date", "end_date", "title"})
	if err := utils.ApplyPagination(query, params).Find(&contests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contests: %w", err)
	}

	return contests, total, nil
}

// ListPublicContests hides drafts and cancellations from the public feed.
func (s *ContestService) ListPublicContests(params utils.PaginationParams) ([]models.Contest, int64, error) {
	var contests []models.Contest
	var total int64

	query := s.db.Model(&models.Contest{}).
		Where("status IN ?", []models.ContestStatus{
			models.ContestStatusActive,
			models.ContestStatusJudging,
			models.ContestStatusCompleted,
		})

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contests: %w", err)
	}

	query = query.Order("start_date DESC")
	if err := utils.ApplyPagination(query, params).Find(&contests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list contests: %w", err)
	}

	return contests, total, nil
}
