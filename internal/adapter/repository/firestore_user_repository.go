package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var profile entity.UserProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	profile.ID = doc.Ref.ID

	return &profile, nil
}

func (r *firestoreUserRepository) MergeProfile(ctx context.Context, profile *entity.UserProfile) error {
	data := map[string]interface{}{
		"id":          profile.ID,
		"email":       profile.Email,
		"displayName": profile.DisplayName,
		"isOnline":    profile.IsOnline,
		"lastSeen":    firestore.ServerTimestamp,
	}
	if profile.PhotoURL != "" {
		data["photoURL"] = profile.PhotoURL
	}
	if !profile.CreatedAt.IsZero() {
		data["createdAt"] = profile.CreatedAt
	}

	_, err := r.client.Collection("users").Doc(profile.ID).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to merge user profile", err)
	}

	return nil
}

func (r *firestoreUserRepository) SetPresence(ctx context.Context, uid string, online bool) error {
	_, err := r.client.Collection("users").Doc(uid).Set(ctx, map[string]interface{}{
		"isOnline": online,
		"lastSeen": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to update presence", err)
	}

	return nil
}
