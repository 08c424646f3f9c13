// internal/models/contest.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

type Contest struct {
	BaseModel
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;not null;index"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Hashtags    pq.StringArray `json:"hashtags" gorm:"type:text[]"`

	StartDate          time.Time `json:"start_date" gorm:"not null"`
	EndDate            time.Time `json:"end_date" gorm:"not null"`
	SubmissionDeadline time.Time `json:"submission_deadline" gorm:"not null"`

	MaxEntries     int `json:"max_entries" gorm:"not null"`
	CurrentEntries int `json:"current_entries" gorm:"default:0"`

	PrizeFirst          string `json:"prize_first" gorm:"size:255;not null"`
	PrizeSecond         string `json:"prize_second" gorm:"size:255;not null"`
	PrizeThird          string `json:"prize_third" gorm:"size:255;not null"`
	ParticipationReward string `json:"participation_reward,omitempty" gorm:"size:255"`

	SponsorName    string `json:"sponsor_name,omitempty" gorm:"size:100"`
	SponsorLogo    string `json:"sponsor_logo,omitempty" gorm:"size:512"`
	SponsorWebsite string `json:"sponsor_website,omitempty" gorm:"size:512"`

	Rules           pq.StringArray `json:"rules" gorm:"type:text[]"`
	Eligibility     string         `json:"eligibility" gorm:"type:text"`
	JudgingCriteria pq.StringArray `json:"judging_criteria" gorm:"type:text[]"`

	Status        ContestStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	FeaturedPrize bool          `json:"featured_prize" gorm:"default:false"`
	AllowTeams    bool          `json:"allow_teams" gorm:"default:false"`

	// Video duration bounds in minutes.
	MinVideoDuration int `json:"min_video_duration" gorm:"default:0"`
	MaxVideoDuration int `json:"max_video_duration" gorm:"default:0"`

	// Winners maps prize tier to the winning entry id, set when results
	// are published.
	Winners      JSONB  `json:"winners,omitempty" gorm:"type:jsonb"`
	Announcement string `json:"announcement,omitempty" gorm:"type:text"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null;index"`

	// Relationships
	Creator User           `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Entries []ContestEntry `json:"entries,omitempty" gorm:"foreignKey:ContestID"`
}

// contestTransitions is the complete lifecycle graph. Completion is only
// reachable through winner publication, cancellation is an administrative
// override from draft or active. Deletion is not a status.
var contestTransitions = map[ContestStatus][]ContestStatus{
	ContestStatusDraft:     {ContestStatusActive, ContestStatusCancelled},
	ContestStatusActive:    {ContestStatusJudging, ContestStatusCancelled},
	ContestStatusJudging:   {ContestStatusCompleted},
	ContestStatusCompleted: {},
	ContestStatusCancelled: {},
}

func (c *Contest) CanTransition(to ContestStatus) bool {
	for _, next := range contestTransitions[c.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the contest to the target status or fails with
// ErrInvalidTransition, leaving the status unchanged.
func (c *Contest) Transition(to ContestStatus) error {
	if !c.CanTransition(to) {
		return apperrors.InvalidTransition("contest", string(c.Status), string(to))
	}
	c.Status = to
	return nil
}

func (c *Contest) IsTerminal() bool {
	return len(contestTransitions[c.Status]) == 0
}

// SubmissionOpen reports whether the contest accepts new entries.
func (c *Contest) SubmissionOpen(now time.Time) bool {
	return c.Status == ContestStatusActive &&
		!now.After(c.SubmissionDeadline) &&
		c.CurrentEntries < c.MaxEntries
}

type ContestEntry struct {
	BaseModel
	ContestID uuid.UUID `json:"contest_id" gorm:"type:uuid;not null;index"`

	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	VideoURL    string         `json:"video_url" gorm:"size:512;not null"`
	Thumbnail   string         `json:"thumbnail" gorm:"size:512"`
	Duration    int            `json:"duration" gorm:"default:0"`
	Category    string         `json:"category" gorm:"size:100"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	Hashtags    pq.StringArray `json:"hashtags" gorm:"type:text[]"`

	// Creator profile snapshot, copied at submission time rather than
	// joined live.
	CreatorID       uuid.UUID `json:"creator_id" gorm:"type:uuid;not null;index"`
	CreatorName     string    `json:"creator_name" gorm:"size:200"`
	CreatorUsername string    `json:"creator_username" gorm:"size:50"`
	CreatorVerified bool      `json:"creator_verified" gorm:"default:false"`
	CreatorAvatar   string    `json:"creator_avatar" gorm:"size:512"`
	CreatorEmail    string    `json:"creator_email" gorm:"size:255"`

	// Engagement counters are supplied externally and never mutated by
	// the moderation workflow.
	Views    int64 `json:"views" gorm:"default:0"`
	Likes    int64 `json:"likes" gorm:"default:0"`
	Comments int64 `json:"comments" gorm:"default:0"`
	Shares   int64 `json:"shares" gorm:"default:0"`

	JudgeScore *float64 `json:"judge_score,omitempty" gorm:"type:decimal(4,2)"`
	JudgeNotes string   `json:"judge_notes,omitempty" gorm:"type:text"`

	Status         EntryStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ModeratorNotes string      `json:"moderator_notes,omitempty" gorm:"type:text"`

	IsTeamEntry bool           `json:"is_team_entry" gorm:"default:false"`
	TeamMembers pq.StringArray `json:"team_members,omitempty" gorm:"type:text[]"`

	// Relationships
	Contest Contest `json:"contest,omitempty" gorm:"foreignKey:ContestID"`
}

// entryTransitions covers moderator-reachable moves. The winner status is
// excluded on purpose: it is only assigned by result publication.
var entryTransitions = map[EntryStatus][]EntryStatus{
	EntryStatusPending:  {EntryStatusApproved, EntryStatusRejected, EntryStatusFlagged},
	EntryStatusApproved: {EntryStatusFlagged},
	EntryStatusFlagged:  {EntryStatusApproved, EntryStatusRejected, EntryStatusPending},
	EntryStatusRejected: {},
	EntryStatusWinner:   {},
}

func (e *ContestEntry) CanModerate(to EntryStatus) bool {
	for _, next := range entryTransitions[e.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Moderate applies a moderator transition. Rejections always require notes,
// as does sending a flagged entry back to pending for further review, and
// flagging always carries a reason.
func (e *ContestEntry) Moderate(to EntryStatus, notes string) error {
	if !e.CanModerate(to) {
		return apperrors.InvalidTransition("entry", string(e.Status), string(to))
	}
	switch {
	case to == EntryStatusRejected && notes == "":
		return apperrors.NewValidation("moderator_notes", "a reason is required to reject an entry")
	case to == EntryStatusFlagged && notes == "":
		return apperrors.NewValidation("moderator_notes", "a reason is required to flag an entry")
	case e.Status == EntryStatusFlagged && to == EntryStatusPending && notes == "":
		return apperrors.NewValidation("moderator_notes", "notes are required when returning an entry for review")
	}
	e.Status = to
	if notes != "" {
		e.ModeratorNotes = notes
	}
	return nil
}

// CanScore reports whether a judge may currently set score or notes.
// Scoring is open while pending or approved, never once rejected.
func (e *ContestEntry) CanScore() bool {
	return e.Status == EntryStatusPending || e.Status == EntryStatusApproved
}

// MarkWinner is the publication-only path to the winner status.
func (e *ContestEntry) MarkWinner() error {
	if e.Status != EntryStatusApproved {
		return apperrors.InvalidTransition("entry", string(e.Status), string(EntryStatusWinner))
	}
	e.Status = EntryStatusWinner
	return nil
}
