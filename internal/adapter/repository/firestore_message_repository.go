package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/errors"
	"ruangchat/pkg/logger"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	doc := r.client.Collection("messages").NewDoc()

	if _, err := doc.Set(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	message.ID = doc.ID

	return nil
}

func (r *firestoreMessageRepository) SubscribeByRoom(ctx context.Context, roomID string, onSnapshot func([]*entity.Message), onError func(error)) (repository.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	// Room-scoped and server-ordered, so a client never downloads messages
	// from rooms it is not viewing.
	iter := r.client.Collection("messages").
		Where("roomId", "==", roomID).
		OrderBy("timestamp", firestore.Asc).
		Snapshots(ctx)

	go func() {
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				onError(err)
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				onError(err)
				continue
			}

			messages := make([]*entity.Message, 0, len(docs))
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			onSnapshot(messages)
		}
	}()

	return &snapshotSubscription{cancel: cancel}, nil
}
