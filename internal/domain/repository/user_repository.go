package repository

import (
	"context"

	"ruangchat/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.UserProfile, error)

	// MergeProfile merge-writes the profile document so fields not carried by
	// the struct survive the write.
	MergeProfile(ctx context.Context, profile *entity.UserProfile) error

	// SetPresence writes isOnline and a server-assigned lastSeen.
	SetPresence(ctx context.Context, uid string, online bool) error
}
