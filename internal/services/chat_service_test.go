package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nriproperty/portal/internal/database/testutil"
	"github.com/nriproperty/portal/internal/models"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

func newChatFixture(t *testing.T) (*ChatService, *LeadService, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	chat, err := NewChatService(db)
	require.NoError(t, err)

	leads, err := NewLeadService(db)
	require.NoError(t, err)

	return chat, leads, db
}

func TestSendAndHistory(t *testing.T) {
	chat, leads, _ := newChatFixture(t)
	ctx := context.Background()

	lead, err := leads.Create(ctx, sampleEnquiry())
	require.NoError(t, err)
	_, err = leads.MarkVerified(ctx, lead.ID)
	require.NoError(t, err)

	first, err := chat.Send(ctx, lead.ID, models.ChatSenderUser, "Hello, any update on my application?")
	require.NoError(t, err)
	require.Equal(t, models.ChatSenderUser, first.Sender)

	_, err = chat.Send(ctx, lead.ID, models.ChatSenderAdmin, "Yes, your documents are being reviewed.")
	require.NoError(t, err)

	history, err := chat.History(ctx, lead.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.ChatSenderUser, history[0].Sender)
	require.Equal(t, models.ChatSenderAdmin, history[1].Sender)
}

func TestSendValidation(t *testing.T) {
	chat, leads, _ := newChatFixture(t)
	ctx := context.Background()

	lead, err := leads.Create(ctx, sampleEnquiry())
	require.NoError(t, err)

	_, err = chat.Send(ctx, lead.ID, "bot", "hi")
	require.Error(t, err)

	_, err = chat.Send(ctx, lead.ID, models.ChatSenderUser, "   ")
	require.Error(t, err)

	_, err = chat.Send(ctx, "missing-lead", models.ChatSenderUser, "hello")
	require.ErrorIs(t, err, apperrors.ErrLeadNotFound)
}

func TestAdminReplyRequiresVerifiedLead(t *testing.T) {
	chat, leads, _ := newChatFixture(t)
	ctx := context.Background()

	lead, err := leads.Create(ctx, sampleEnquiry())
	require.NoError(t, err)

	// The client may write before verification, the operator may not.
	_, err = chat.Send(ctx, lead.ID, models.ChatSenderUser, "Hello?")
	require.NoError(t, err)

	_, err = chat.Send(ctx, lead.ID, models.ChatSenderAdmin, "Welcome aboard")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = leads.MarkVerified(ctx, lead.ID)
	require.NoError(t, err)

	_, err = chat.Send(ctx, lead.ID, models.ChatSenderAdmin, "Welcome aboard")
	require.NoError(t, err)
}

func TestThreadsListsActiveConversations(t *testing.T) {
	chat, leads, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := leads.Create(ctx, sampleEnquiry())
	require.NoError(t, err)

	enquiry := sampleEnquiry()
	enquiry.Email = "ravi@example.com"
	enquiry.Name = "Ravi Menon"
	second, err := leads.Create(ctx, enquiry)
	require.NoError(t, err)

	enquiry = sampleEnquiry()
	enquiry.Email = "unverified@example.com"
	third, err := leads.Create(ctx, enquiry)
	require.NoError(t, err)

	_, err = leads.MarkVerified(ctx, first.ID)
	require.NoError(t, err)
	_, err = leads.MarkVerified(ctx, second.ID)
	require.NoError(t, err)

	// A lead with no messages never appears in the inbox.
	threads, err := chat.Threads(ctx)
	require.NoError(t, err)
	require.Empty(t, threads)

	_, err = chat.Send(ctx, first.ID, models.ChatSenderUser, "First message")
	require.NoError(t, err)
	_, err = chat.Send(ctx, second.ID, models.ChatSenderUser, "Second message")
	require.NoError(t, err)
	_, err = chat.Send(ctx, first.ID, models.ChatSenderAdmin, "Reply")
	require.NoError(t, err)

	// Unverified leads stay out of the inbox even with messages.
	_, err = chat.Send(ctx, third.ID, models.ChatSenderUser, "Anyone there?")
	require.NoError(t, err)

	threads, err = chat.Threads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	for _, thread := range threads {
		switch thread.Lead.ID {
		case first.ID:
			require.Equal(t, int64(2), thread.MessageCount)
			require.Equal(t, "Reply", thread.LastMessage.Body)
		case second.ID:
			require.Equal(t, int64(1), thread.MessageCount)
		default:
			t.Fatalf("unexpected thread for lead %s", thread.Lead.ID)
		}
	}
}
