// internal/services/winner_service.go
package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/database"
	"github.com/isabitv/isabitv-backend/internal/metrics"
	"github.com/isabitv/isabitv-backend/internal/models"
)

type WinnerService struct {
	db                  *gorm.DB
	config              *config.Config
	contestService      *ContestService
	notificationService *NotificationService
}

type PublishResultsRequest struct {
	// Winners maps prize tier to entry id. First place is mandatory.
	Winners      map[models.PrizeTier]uuid.UUID `json:"winners" validate:"required"`
	Announcement string                         `json:"announcement,omitempty" validate:"omitempty,max=5000"`
}

func NewWinnerService(db *gorm.DB, cfg *config.Config, contestService *ContestService, notificationService *NotificationService) *WinnerService {
	return &WinnerService{
		db:                  db,
		config:              cfg,
		contestService:      contestService,
		notificationService: notificationService,
	}
}

// RankCandidates orders entries for winner selection: judge score
// descending, unscored entries last, earlier submissions first on ties.
// The sort is stable so repeated runs over the same entries agree.
func RankCandidates(entries []models.ContestEntry) []models.ContestEntry {
	ranked := make([]models.ContestEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].JudgeScore, ranked[j].JudgeScore
		switch {
		case a == nil && b == nil:
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
	})

	return ranked
}

// Candidates returns the top ranked approved entries for a contest in
// judging, bounded by the configured pool size.
func (s *WinnerService) Candidates(contestID uuid.UUID) ([]models.ContestEntry, error) {
	contest, err := s.contestService.GetContest(contestID)
	if err != nil {
		return nil, err
	}

	if contest.Status != models.ContestStatusJudging {
		return nil, apperrors.NewValidation("status", "candidates are only available while judging")
	}

	var entries []models.ContestEntry
	if err := s.db.Where("contest_id = ? AND status = ?", contestID, models.EntryStatusApproved).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	ranked := RankCandidates(entries)
	if len(ranked) > s.config.Contest.WinnerPoolSize {
		ranked = ranked[:s.config.Contest.WinnerPoolSize]
	}

	return ranked, nil
}

// buildSelection turns a publish request's tier map into a validated
// Selection. A batch request naming the same entry in two tiers is rejected
// outright; Selection.Assign's clear-and-move semantics exist for
// interactive reassignment and must not let map iteration order decide
// which tier survives here.
func buildSelection(winners map[models.PrizeTier]uuid.UUID) (*models.Selection, error) {
	assigned := make(map[uuid.UUID]bool, len(winners))
	for _, entryID := range winners {
		if assigned[entryID] {
			return nil, apperrors.NewValidation("winners", "an entry cannot hold two prize tiers")
		}
		assigned[entryID] = true
	}

	selection := models.NewSelection()
	for tier, entryID := range winners {
		if err := selection.Assign(tier, entryID); err != nil {
			return nil, err
		}
	}
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	return selection, nil
}

// PublishResults commits the winner selection: every selected entry becomes
// a winner, the contest completes, and the winners map plus announcement are
// stored. All of it happens in one transaction so a partial publish can
// never be observed.
func (s *WinnerService) PublishResults(adminID, contestID uuid.UUID, req *PublishResultsRequest) (*models.Contest, error) {
	contest, err := s.contestService.GetContest(contestID)
	if err != nil {
		return nil, err
	}

	if contest.Status != models.ContestStatusJudging {
		return nil, apperrors.InvalidTransition("contest", string(contest.Status), string(models.ContestStatusCompleted))
	}

	selection, err := buildSelection(req.Winners)
	if err != nil {
		return nil, err
	}

	// All selected entries must be approved entries of this contest
	entryIDs := selection.EntryIDs()
	var entries []models.ContestEntry
	if err := s.db.Where("id IN ? AND contest_id = ?", entryIDs, contestID).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	if len(entries) != len(entryIDs) {
		return nil, apperrors.NewValidation("winners", "selection references entries outside this contest")
	}

	byID := make(map[uuid.UUID]*models.ContestEntry, len(entries))
	for i := range entries {
		if err := entries[i].MarkWinner(); err != nil {
			return nil, err
		}
		byID[entries[i].ID] = &entries[i]
	}

	winners := selection.Winners()
	announcement := req.Announcement
	if announcement == "" {
		announcement = fmt.Sprintf("Winners for %s have been announced.", contest.Title)
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		for _, entry := range entries {
			if err := tx.Model(&models.ContestEntry{}).
				Where("id = ?", entry.ID).
				Update("status", models.EntryStatusWinner).Error; err != nil {
				return fmt.Errorf("failed to mark winner: %w", err)
			}
		}

		if err := tx.Model(&models.Contest{}).
			Where("id = ?", contestID).
			Updates(map[string]interface{}{
				"status":       models.ContestStatusCompleted,
				"winners":      winners,
				"announcement": announcement,
			}).Error; err != nil {
			return fmt.Errorf("failed to complete contest: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	contest.Status = models.ContestStatusCompleted
	contest.Winners = winners
	contest.Announcement = announcement

	metrics.ContestTransitions.WithLabelValues(string(models.ContestStatusCompleted)).Inc()

	go writeAuditLog(s.db, adminID, "contest_results_published", "contest", &contest.ID, nil, map[string]interface{}{
		"winners": map[models.PrizeTier]uuid.UUID(req.Winners),
	})

	if err := s.notificationService.SendContestResultsAnnouncement(contest); err != nil {
		// Results are committed, the announcement record is best effort
		logrus.WithError(err).Error("Failed to record results announcement")
	}

	winnersByTier := make(map[models.PrizeTier]*models.ContestEntry, len(req.Winners))
	for tier, entryID := range req.Winners {
		if entry, ok := byID[entryID]; ok {
			winnersByTier[tier] = entry
		}
	}
	go s.notificationService.NotifyWinners(contest, winnersByTier)

	return contest, nil
}

// Results returns the published winners of a completed contest, resolved to
// their entries.
func (s *WinnerService) Results(contestID uuid.UUID) (*models.Contest, []models.ContestEntry, error) {
	contest, err := s.contestService.GetContest(contestID)
	if err != nil {
		return nil, nil, err
	}

	if contest.Status != models.ContestStatusCompleted {
		return nil, nil, apperrors.NewValidation("status", "results are not published yet")
	}

	var winners []models.ContestEntry
	if err := s.db.Where("contest_id = ? AND status = ?", contestID, models.EntryStatusWinner).
		Order("created_at ASC").
		Find(&winners).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load winners: %w", err)
	}

	return contest, winners, nil
}
