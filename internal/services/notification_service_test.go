package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nriproperty/portal/internal/database/testutil"
	apperrors "github.com/nriproperty/portal/pkg/errors"
)

func newNotificationFixture(t *testing.T) (*NotificationService, string) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	svc, err := NewNotificationService(db)
	require.NoError(t, err)

	leads, err := NewLeadService(db)
	require.NoError(t, err)

	lead, err := leads.Create(context.Background(), sampleEnquiry())
	require.NoError(t, err)

	return svc, lead.ID
}

func TestNotificationLifecycle(t *testing.T) {
	svc, leadID := newNotificationFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, leadID, "Contract ready", "Your contract is ready for download.", "", map[string]interface{}{
		"contract_id": "abc-123",
	})
	require.NoError(t, err)
	require.Equal(t, "info", created.Severity)
	require.NotEmpty(t, created.Metadata)

	_, err = svc.Create(ctx, leadID, "Payment due", "", "warning", nil)
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx, leadID)
	require.NoError(t, err)
	require.Equal(t, int64(2), unread)

	require.NoError(t, svc.MarkRead(ctx, leadID, created.ID))

	unread, err = svc.UnreadCount(ctx, leadID)
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)

	require.NoError(t, svc.MarkAllRead(ctx, leadID))

	unread, err = svc.UnreadCount(ctx, leadID)
	require.NoError(t, err)
	require.Equal(t, int64(0), unread)

	list, err := svc.ListForLead(ctx, leadID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		require.True(t, n.IsRead)
		require.NotNil(t, n.ReadAt)
	}
}

func TestMarkReadGuardsOwnership(t *testing.T) {
	svc, leadID := newNotificationFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, leadID, "Contract ready", "", "", nil)
	require.NoError(t, err)

	err = svc.MarkRead(ctx, "someone-else", created.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
