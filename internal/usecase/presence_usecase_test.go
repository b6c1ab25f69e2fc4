package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruangchat/internal/domain/entity"
)

func TestHandleSignInMergesOnlineProfile(t *testing.T) {
	repo := newFakeUserRepo()
	presence := NewPresenceUseCase(repo)

	profile := &entity.UserProfile{ID: "alice", Email: "alice@example.com", DisplayName: "Alice"}
	require.NoError(t, presence.HandleSignIn(context.Background(), profile))

	require.Len(t, repo.merged, 1)
	assert.True(t, repo.merged[0].IsOnline)
	assert.Equal(t, "alice", repo.merged[0].ID)
}

func TestHandleVisibilityTracksHiddenFlag(t *testing.T) {
	repo := newFakeUserRepo()
	presence := NewPresenceUseCase(repo)
	ctx := context.Background()

	presence.HandleVisibility(ctx, "alice", true)
	presence.HandleVisibility(ctx, "alice", false)

	require.Len(t, repo.presence, 2)
	assert.Equal(t, presenceWrite{uid: "alice", online: false}, repo.presence[0])
	assert.Equal(t, presenceWrite{uid: "alice", online: true}, repo.presence[1])
}

func TestHandleVisibilityWithoutSessionIsNoop(t *testing.T) {
	repo := newFakeUserRepo()
	presence := NewPresenceUseCase(repo)

	presence.HandleVisibility(context.Background(), "", true)
	assert.Empty(t, repo.presence)
}

func TestHandleSignOutMarksOffline(t *testing.T) {
	repo := newFakeUserRepo()
	presence := NewPresenceUseCase(repo)

	presence.HandleSignOut(context.Background(), "alice")

	require.Len(t, repo.presence, 1)
	assert.Equal(t, presenceWrite{uid: "alice", online: false}, repo.presence[0])
}

func TestPresenceWriteFailuresAreSwallowed(t *testing.T) {
	repo := newFakeUserRepo()
	repo.setPresenceErr = fmt.Errorf("backend unavailable")
	presence := NewPresenceUseCase(repo)

	// Best-effort writes: neither call may panic or surface the error.
	presence.HandleVisibility(context.Background(), "alice", true)
	presence.HandleSignOut(context.Background(), "alice")
}
