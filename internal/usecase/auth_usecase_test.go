package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesOnlineProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := &fakeAuthClient{}
	auth := NewAuthUseCase(userRepo, authClient, NewPresenceUseCase(userRepo))

	result, err := auth.Register(context.Background(), RegisterInput{
		Email:       "alice@example.com",
		Password:    "secret123",
		DisplayName: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, "uid-alice", result.User.ID)
	assert.Equal(t, "id-token", result.Token)

	require.Len(t, userRepo.merged, 1)
	assert.True(t, userRepo.merged[0].IsOnline, "registration signs the user in")
}

func TestLogoutWritesOfflineBeforeRevoking(t *testing.T) {
	userRepo := newFakeUserRepo()
	authClient := &fakeAuthClient{}
	auth := NewAuthUseCase(userRepo, authClient, NewPresenceUseCase(userRepo))

	require.NoError(t, auth.Logout(context.Background(), "alice"))

	require.Len(t, userRepo.presence, 1)
	assert.Equal(t, presenceWrite{uid: "alice", online: false}, userRepo.presence[0])

	require.NotEmpty(t, authClient.calls)
	assert.Equal(t, authCall{name: "RevokeTokens", uid: "alice"}, authClient.calls[len(authClient.calls)-1])
}
