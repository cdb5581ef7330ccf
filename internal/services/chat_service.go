package services

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

// ChatThread summarises one lead's conversation for the admin inbox.
type ChatThread struct {
	Lead         models.Lead         `json:"lead"`
	LastMessage  *models.ChatMessage `json:"last_message,omitempty"`
	MessageCount int64               `json:"message_count"`
}

// ChatService stores and retrieves the per-lead support chat log.
type ChatService struct {
	db *gorm.DB
}

// NewChatService constructs a ChatService backed by the given database.
func NewChatService(db *gorm.DB) (*ChatService, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &ChatService{db: db}, nil
}

// Send appends a message to a lead's conversation. Operator replies are only
// allowed towards verified leads; the client side may write as soon as the
// lead exists.
func (s *ChatService) Send(ctx context.Context, leadID, sender, body string) (*models.ChatMessage, error) {
	if sender != models.ChatSenderUser && sender != models.ChatSenderAdmin {
		return nil, apperrors.NewBadRequest("Unknown message sender")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewBadRequest("Message body is required")
	}

	var lead models.Lead
	if err := s.db.WithContext(ctx).Where("id = ?", leadID).First(&lead).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrLeadNotFound
		}
		return nil, apperrors.Wrap(err, "Failed to load account")
	}

	if sender == models.ChatSenderAdmin && !lead.IsVerified {
		return nil, apperrors.ErrForbidden
	}

	msg := &models.ChatMessage{
		LeadID: leadID,
		Sender: sender,
		Body:   body,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, apperrors.Wrap(err, "Failed to save message")
	}

	return msg, nil
}

// History returns a lead's conversation, oldest first.
func (s *ChatService) History(ctx context.Context, leadID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to load messages")
	}
	return messages, nil
}

// Threads lists every verified lead with at least one chat message, newest
// activity first, for the admin inbox.
func (s *ChatService) Threads(ctx context.Context) ([]ChatThread, error) {
	var leadIDs []string
	err := s.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Distinct("lead_id").
		Pluck("lead_id", &leadIDs).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "Failed to list conversations")
	}

	threads := make([]ChatThread, 0, len(leadIDs))
	for _, leadID := range leadIDs {
		var lead models.Lead
		if err := s.db.WithContext(ctx).Where("id = ?", leadID).First(&lead).Error; err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, apperrors.Wrap(err, "Failed to load account")
		}
		if !lead.IsVerified {
			continue
		}

		var last models.ChatMessage
		err := s.db.WithContext(ctx).
			Where("lead_id = ?", leadID).
			Order("created_at DESC").
			First(&last).Error
		if err != nil {
			return nil, apperrors.Wrap(err, "Failed to load messages")
		}

		var count int64
		err = s.db.WithContext(ctx).
			Model(&models.ChatMessage{}).
			Where("lead_id = ?", leadID).
			Count(&count).Error
		if err != nil {
			return nil, apperrors.Wrap(err, "Failed to count messages")
		}

		threads = append(threads, ChatThread{Lead: lead, LastMessage: &last, MessageCount: count})
	}

	// Newest conversation first.
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].LastMessage.CreatedAt.After(threads[j].LastMessage.CreatedAt)
	})

	return threads, nil
}
