package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nriproperty/portal/internal/database/testutil"
)

func TestIncrementAndCurrent(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	svc, err := NewViewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), current)

	first, err := svc.Increment(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := svc.Increment(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), second)
}

func TestIncrementCreatesMissingCounter(t *testing.T) {
	// Migrated but unseeded database has no counter row yet.
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewViewService(db)
	require.NoError(t, err)

	value, err := svc.Increment(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), value)
}
