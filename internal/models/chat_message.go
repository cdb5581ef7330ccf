package models

// Chat senders.
const (
	ChatSenderUser  = "user"
	ChatSenderAdmin = "admin"
)

// ChatMessage is one entry in a lead's support chat log.
type ChatMessage struct {
	BaseModel

	LeadID string `gorm:"type:uuid;not null;index" json:"lead_id"`
	Sender string `gorm:"type:varchar(16);not null" json:"sender"`
	Body   string `gorm:"type:text;not null" json:"body"`
}
