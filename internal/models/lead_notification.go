package models

import (
	"time"

	"gorm.io/datatypes"
)

// LeadNotification is an operator message surfaced on the client dashboard.
type LeadNotification struct {
	BaseModel

	LeadID   string         `gorm:"type:uuid;not null;index" json:"lead_id"`
	Title    string         `gorm:"type:varchar(255);not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Severity string         `gorm:"type:varchar(32);default:'info'" json:"severity"`
	Metadata datatypes.JSON `json:"metadata"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}
