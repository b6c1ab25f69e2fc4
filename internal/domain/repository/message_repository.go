package repository

import (
	"context"

	"ruangchat/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error

	// SubscribeByRoom delivers the room's full message set, ordered by
	// timestamp ascending, on every change until cancelled.
	SubscribeByRoom(ctx context.Context, roomID string, onSnapshot func([]*entity.Message), onError func(error)) (Subscription, error)
}
