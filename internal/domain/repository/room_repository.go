package repository

import (
	"context"
	"time"

	"ruangchat/internal/domain/entity"
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)

	// SetLastMessage merge-writes the denormalized preview on the room.
	SetLastMessage(ctx context.Context, roomID string, preview *entity.LastMessage) error

	// AdjustParticipantCount applies a server-side atomic delta. Never a
	// read-modify-write: concurrent viewers must commute.
	AdjustParticipantCount(ctx context.Context, roomID string, delta int) error

	// SubscribeAll delivers the full room set, ordered by createdAt descending,
	// on every change until the subscription is cancelled.
	SubscribeAll(ctx context.Context, onSnapshot func([]*entity.Room), onError func(error)) (Subscription, error)

	// Viewer heartbeat records under rooms/{id}/viewers. TouchViewer refreshes
	// the record's expiry; CountActiveViewers counts unexpired records.
	TouchViewer(ctx context.Context, roomID, uid string, ttl time.Duration) error
	RemoveViewer(ctx context.Context, roomID, uid string) error
	CountActiveViewers(ctx context.Context, roomID string) (int, error)
}
