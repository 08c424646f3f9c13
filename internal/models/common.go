// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	RoleViewer     UserRole = "viewer"
	RoleCreator    UserRole = "creator"
	RoleModerator  UserRole = "moderator"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// capabilities maps each role to the set of requirements it satisfies:
// super_admin covers everything, admin covers admin and moderator surfaces,
// moderator covers moderator surfaces only.
var capabilities = map[UserRole]map[UserRole]bool{
	RoleSuperAdmin: {RoleSuperAdmin: true, RoleAdmin: true, RoleModerator: true, RoleCreator: true, RoleViewer: true},
	RoleAdmin:      {RoleAdmin: true, RoleModerator: true, RoleCreator: true, RoleViewer: true},
	RoleModerator:  {RoleModerator: true, RoleViewer: true},
	RoleCreator:    {RoleCreator: true, RoleViewer: true},
	RoleViewer:     {RoleViewer: true},
}

// Satisfies reports whether a user holding role r may access a surface
// guarded by the required role. Unknown roles satisfy nothing (fail closed).
func (r UserRole) Satisfies(required UserRole) bool {
	caps, ok := capabilities[r]
	if !ok {
		return false
	}
	return caps[required]
}

func (r UserRole) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusPending:
		return true
	}
	return false
}

type ContestStatus string

const (
	ContestStatusDraft     ContestStatus = "draft"
	ContestStatusActive    ContestStatus = "active"
	ContestStatusJudging   ContestStatus = "judging"
	ContestStatusCompleted ContestStatus = "completed"
	ContestStatusCancelled ContestStatus = "cancelled"
)

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
	EntryStatusFlagged  EntryStatus = "flagged"
	EntryStatusWinner   EntryStatus = "winner"
)

type PrizeTier string

const (
	PrizeTierFirst  PrizeTier = "first"
	PrizeTierSecond PrizeTier = "second"
	PrizeTierThird  PrizeTier = "third"
)

type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusUnderReview ReportStatus = "under_review"
	ReportStatusResolved    ReportStatus = "resolved"
	ReportStatusDismissed   ReportStatus = "dismissed"
)

type ReportSeverity string

const (
	ReportSeverityLow      ReportSeverity = "low"
	ReportSeverityMedium   ReportSeverity = "medium"
	ReportSeverityHigh     ReportSeverity = "high"
	ReportSeverityCritical ReportSeverity = "critical"
)

type PayoutStatus string

const (
	PayoutStatusRequested PayoutStatus = "requested"
	PayoutStatusPaid      PayoutStatus = "paid"
	PayoutStatusRejected  PayoutStatus = "rejected"
)
