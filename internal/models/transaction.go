// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Earning is a ledger row credited to a creator from engagement revenue.
type Earning struct {
	BaseModel
	UserID  uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	VideoID *uuid.UUID `json:"video_id,omitempty" gorm:"type:uuid;index"`
	Amount  float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Source  string    `json:"source" gorm:"size:50;not null"`
	Period  string    `json:"period" gorm:"size:20"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type Payout struct {
	BaseModel
	UserID          uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount          float64      `json:"amount" gorm:"type:decimal(12,2);not null"`
	Status          PayoutStatus `json:"status" gorm:"type:varchar(20);default:'requested';index"`
	StripeAccountID string       `json:"stripe_account_id" gorm:"size:100"`
	TransferRef     string       `json:"transfer_ref,omitempty" gorm:"size:100"`
	ProcessedBy     *uuid.UUID   `json:"processed_by,omitempty" gorm:"type:uuid"`
	ProcessedAt     *time.Time   `json:"processed_at,omitempty"`
	RejectReason    string       `json:"reject_reason,omitempty" gorm:"type:text"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
