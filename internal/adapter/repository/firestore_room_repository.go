package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/errors"
	"ruangchat/pkg/logger"
)

type firestoreRoomRepository struct {
	client *firestore.Client
}

func NewFirestoreRoomRepository(client *firestore.Client) repository.RoomRepository {
	return &firestoreRoomRepository{
		client: client,
	}
}

func (r *firestoreRoomRepository) Create(ctx context.Context, room *entity.Room) error {
	doc := r.client.Collection("rooms").NewDoc()

	if _, err := doc.Set(ctx, room); err != nil {
		return errors.Internal("Failed to create room", err)
	}
	room.ID = doc.ID

	return nil
}

func (r *firestoreRoomRepository) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	doc, err := r.client.Collection("rooms").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Room", err)
		}
		return nil, errors.Internal("Failed to get room", err)
	}

	var room entity.Room
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse room data", err)
	}
	room.ID = doc.Ref.ID

	return &room, nil
}

func (r *firestoreRoomRepository) SetLastMessage(ctx context.Context, roomID string, preview *entity.LastMessage) error {
	_, err := r.client.Collection("rooms").Doc(roomID).Set(ctx, map[string]interface{}{
		"lastMessage": map[string]interface{}{
			"text":       preview.Text,
			"senderName": preview.SenderName,
			"timestamp":  firestore.ServerTimestamp,
		},
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update last message preview", err)
	}

	return nil
}

func (r *firestoreRoomRepository) AdjustParticipantCount(ctx context.Context, roomID string, delta int) error {
	_, err := r.client.Collection("rooms").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: "participantCount", Value: firestore.Increment(delta)},
	})
	if err != nil {
		return errors.Internal("Failed to adjust participant count", err)
	}

	return nil
}

func (r *firestoreRoomRepository) SubscribeAll(ctx context.Context, onSnapshot func([]*entity.Room), onError func(error)) (repository.Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	iter := r.client.Collection("rooms").OrderBy("createdAt", firestore.Desc).Snapshots(ctx)

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

			rooms := make([]*entity.Room, 0, len(docs))
			for _, doc := range docs {
				var room entity.Room
				if err := doc.DataTo(&room); err != nil {
					logger.Warn("Skipping malformed room document %s: %v", doc.Ref.ID, err)
					continue
				}
				room.ID = doc.Ref.ID
				rooms = append(rooms, &room)
			}

			onSnapshot(rooms)
		}
	}()

	return &snapshotSubscription{cancel: cancel}, nil
}

func (r *firestoreRoomRepository) TouchViewer(ctx context.Context, roomID, uid string, ttl time.Duration) error {
	_, err := r.client.Collection("rooms").Doc(roomID).Collection("viewers").Doc(uid).Set(ctx, map[string]interface{}{
		"userId":    uid,
		"lastSeen":  firestore.ServerTimestamp,
		"expiresAt": time.Now().Add(ttl),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to refresh viewer record", err)
	}

	return nil
}

func (r *firestoreRoomRepository) RemoveViewer(ctx context.Context, roomID, uid string) error {
	_, err := r.client.Collection("rooms").Doc(roomID).Collection("viewers").Doc(uid).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove viewer record", err)
	}

	return nil
}

func (r *firestoreRoomRepository) CountActiveViewers(ctx context.Context, roomID string) (int, error) {
	docs, err := r.client.Collection("rooms").Doc(roomID).Collection("viewers").
		Where("expiresAt", ">", time.Now()).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count active viewers", err)
	}

	return len(docs), nil
}
