// internal/models/video.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Video struct {
	BaseModel
	CreatorID   uuid.UUID      `json:"creator_id" gorm:"type:uuid;not null;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`

	// StorageKey is the object key in the storage bucket; URL the public
	// address derived from it. The pair is written together by the upload
	// flow and the object is removed if this row cannot be inserted.
	StorageKey   string `json:"storage_key" gorm:"size:512;not null"`
	URL          string `json:"url" gorm:"size:512;not null"`
	ThumbnailURL string `json:"thumbnail_url" gorm:"size:512"`
	Duration     int    `json:"duration" gorm:"default:0"`
	SizeBytes    int64  `json:"size_bytes" gorm:"default:0"`
	MimeType     string `json:"mime_type" gorm:"size:100"`

	Views    int64 `json:"views" gorm:"default:0"`
	Likes    int64 `json:"likes" gorm:"default:0"`
	Comments int64 `json:"comments" gorm:"default:0"`
	Shares   int64 `json:"shares" gorm:"default:0"`

	Published bool `json:"published" gorm:"default:true"`

	// Relationships
	Creator User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}
