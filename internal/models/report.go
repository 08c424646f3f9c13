// internal/models/report.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/isabitv/isabitv-backend/internal/apperrors"
)

type Report struct {
	BaseModel
	// Target of the report. TargetType distinguishes videos from contest
	// entries so severe entry reports can escalate into the moderation
	// workflow.
	TargetType  string    `json:"target_type" gorm:"type:varchar(20);not null;index"`
	TargetID    uuid.UUID `json:"target_id" gorm:"type:uuid;not null;index"`
	TargetTitle string    `json:"target_title" gorm:"size:255"`

	ReporterID  uuid.UUID      `json:"reporter_id" gorm:"type:uuid;not null;index"`
	Reason      string         `json:"reason" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Severity    ReportSeverity `json:"severity" gorm:"type:varchar(20);not null;index"`
	Category    string         `json:"category" gorm:"size:100"`
	Evidence    pq.StringArray `json:"evidence" gorm:"type:text[]"`

	Status            ReportStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ModeratorAssigned *uuid.UUID   `json:"moderator_assigned,omitempty" gorm:"type:uuid"`
	Resolution        string       `json:"resolution,omitempty" gorm:"type:text"`
	ResolvedAt        *time.Time   `json:"resolved_at,omitempty"`

	// Relationships
	Reporter  User  `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
	Moderator *User `json:"moderator,omitempty" gorm:"foreignKey:ModeratorAssigned"`
}

const (
	ReportTargetVideo = "video"
	ReportTargetEntry = "entry"
)

var reportTransitions = map[ReportStatus][]ReportStatus{
	ReportStatusPending:     {ReportStatusUnderReview, ReportStatusResolved, ReportStatusDismissed},
	ReportStatusUnderReview: {ReportStatusResolved, ReportStatusDismissed},
	ReportStatusResolved:    {},
	ReportStatusDismissed:   {},
}

func (r *Report) CanTransition(to ReportStatus) bool {
	for _, next := range reportTransitions[r.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// Close resolves or dismisses the report. Resolution text is mandatory so
// the review outcome is auditable.
func (r *Report) Close(to ReportStatus, resolution string, now time.Time) error {
	if to != ReportStatusResolved && to != ReportStatusDismissed {
		return apperrors.NewValidation("status", "close only accepts resolved or dismissed")
	}
	if !r.CanTransition(to) {
		return apperrors.InvalidTransition("report", string(r.Status), string(to))
	}
	if resolution == "" {
		return apperrors.NewValidation("resolution", "resolution text is required")
	}
	r.Status = to
	r.Resolution = resolution
	r.ResolvedAt = &now
	return nil
}

// Escalates reports whether this report should push its target entry into
// the flagged state.
func (r *Report) Escalates() bool {
	return r.TargetType == ReportTargetEntry &&
		(r.Severity == ReportSeverityHigh || r.Severity == ReportSeverityCritical)
}
