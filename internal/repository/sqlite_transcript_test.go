package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/strive/internal/domain"
	"github.com/alexanderramin/strive/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTranscriptRepo(database)
	ctx := context.Background()

	user := testutil.NewTestMessage(domain.RoleUser, "I want to run a marathon")
	assistant := testutil.NewTestMessage(domain.RoleAssistant, "When is the race?")
	assistant.CreatedAt = user.CreatedAt.Add(time.Second)

	require.NoError(t, repo.Append(ctx, user))
	require.NoError(t, repo.Append(ctx, assistant))

	messages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, user.ID, messages[0].ID)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "I want to run a marathon", messages[0].Content)
	assert.Equal(t, assistant.ID, messages[1].ID)
}

func TestTranscript_ListOrdersByCreation(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTranscriptRepo(database)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	later := testutil.NewTestMessage(domain.RoleAssistant, "second")
	later.CreatedAt = base.Add(time.Minute)
	earlier := testutil.NewTestMessage(domain.RoleUser, "first")
	earlier.CreatedAt = base

	// Insert out of order on purpose.
	require.NoError(t, repo.Append(ctx, later))
	require.NoError(t, repo.Append(ctx, earlier))

	messages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
}

func TestTranscript_RoundTripsTimestamps(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTranscriptRepo(database)
	ctx := context.Background()

	m := testutil.NewTestMessage(domain.RoleUser, "hello")
	require.NoError(t, repo.Append(ctx, m))

	messages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].CreatedAt.Equal(m.CreatedAt))
}

func TestTranscript_Clear(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTranscriptRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, testutil.NewTestMessage(domain.RoleUser, "hi")))
	require.NoError(t, repo.Clear(ctx))

	messages, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestTranscript_ListEmpty(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteTranscriptRepo(database)

	messages, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, messages)
}
