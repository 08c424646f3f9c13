// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username        string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	FirstName       string     `json:"first_name" gorm:"size:100"`
	LastName        string     `json:"last_name" gorm:"size:100"`
	Role            UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'viewer'"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	IsVerified      bool       `json:"is_verified" gorm:"default:false"`
	AvatarURL       string     `json:"avatar_url" gorm:"size:512"`
	Bio             string     `json:"bio" gorm:"type:text"`
	ProfileData     JSONB      `json:"profile_data" gorm:"type:jsonb"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Engagement and earnings aggregates, maintained by the engagement
	// ingestion path and the payout service.
	TotalViews     int64   `json:"total_views" gorm:"default:0"`
	TotalLikes     int64   `json:"total_likes" gorm:"default:0"`
	Subscribers    int64   `json:"subscribers" gorm:"default:0"`
	EarningsTotal  float64 `json:"earnings_total" gorm:"type:decimal(12,2);default:0"`
	EarningsPaid   float64 `json:"earnings_paid" gorm:"type:decimal(12,2);default:0"`

	// Relationships
	Videos  []Video        `json:"videos,omitempty" gorm:"foreignKey:CreatorID"`
	Entries []ContestEntry `json:"entries,omitempty" gorm:"foreignKey:CreatorID"`
	Payouts []Payout       `json:"payouts,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Balance is the amount still owed to the creator.
func (u *User) Balance() float64 {
	return u.EarningsTotal - u.EarningsPaid
}
