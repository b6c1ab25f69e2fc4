package usecase

import (
	"context"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/logger"
)

// PresenceUseCase keeps a profile's isOnline/lastSeen fields consistent with
// session and tab-visibility state. Apart from the sign-in merge, every write
// here is best-effort: failures are logged, never surfaced.
type PresenceUseCase struct {
	userRepo repository.UserRepository
}

func NewPresenceUseCase(userRepo repository.UserRepository) *PresenceUseCase {
	return &PresenceUseCase{
		userRepo: userRepo,
	}
}

// HandleSignIn merge-writes the profile with isOnline true and a server
// lastSeen. Merge semantics keep fields this struct does not carry.
func (uc *PresenceUseCase) HandleSignIn(ctx context.Context, profile *entity.UserProfile) error {
	profile.IsOnline = true
	return uc.userRepo.MergeProfile(ctx, profile)
}

// HandleVisibility reacts to a tab visibility change while a session is active.
func (uc *PresenceUseCase) HandleVisibility(ctx context.Context, uid string, hidden bool) {
	if uid == "" {
		return
	}
	if err := uc.userRepo.SetPresence(ctx, uid, !hidden); err != nil {
		logger.Warn("Presence visibility write failed for user %s: %v", uid, err)
	}
}

// HandleSignOut marks the profile offline. Called before the session is
// terminated; a failure must not block the sign-out itself.
func (uc *PresenceUseCase) HandleSignOut(ctx context.Context, uid string) {
	if err := uc.userRepo.SetPresence(ctx, uid, false); err != nil {
		logger.Warn("Presence sign-out write failed for user %s: %v", uid, err)
	}
}
