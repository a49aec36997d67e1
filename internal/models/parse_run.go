package models

import (
	"time"

	"github.com/google/uuid"
)

type ParseStatus string

const (
	ParseStatusCompleted ParseStatus = "completed"
	ParseStatusFailed    ParseStatus = "failed"
)

// ParseRun records one parse attempt against an uploaded resume, including
// the normalized profile it produced. Successful runs are picked up by the
// talent indexer.
type ParseRun struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID   uuid.UUID   `gorm:"type:uuid" json:"document_id"`
	Fingerprint  string      `gorm:"type:text;index" json:"fingerprint"`
	Status       ParseStatus `gorm:"not null" json:"status"`
	Success      bool        `gorm:"not null;default:false" json:"success"`
	ErrorMessage *string     `gorm:"type:text" json:"error_message,omitempty"`
	ProfileJSON  string      `gorm:"type:jsonb" json:"-"`
	FromCache    bool        `gorm:"not null;default:false" json:"from_cache"`
	DurationMs   int64       `gorm:"type:bigint" json:"duration_ms"`
	Indexed      bool        `gorm:"not null;default:false" json:"indexed"`
	CreatedAt    time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (ParseRun) TableName() string {
	return "parse_runs"
}
