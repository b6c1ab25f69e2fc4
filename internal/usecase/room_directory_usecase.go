package usecase

import (
	"context"
	"strings"
	"sync"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/internal/infrastructure/ratelimit"
	"ruangchat/pkg/errors"
	"ruangchat/pkg/logger"
)

// RoomDirectoryUseCase maintains the live, creation-time-descending room list.
// One subscription is shared by every connected client; each snapshot replaces
// the list wholesale and a subscription error leaves the last-known-good list
// in place.
type RoomDirectoryUseCase struct {
	roomRepo    repository.RoomRepository
	rateLimiter *ratelimit.RateLimiter

	mu        sync.RWMutex
	rooms     []*entity.Room
	sub       repository.Subscription
	listeners map[string]func([]*entity.Room)
}

func NewRoomDirectoryUseCase(roomRepo repository.RoomRepository, rateLimiter *ratelimit.RateLimiter) *RoomDirectoryUseCase {
	return &RoomDirectoryUseCase{
		roomRepo:    roomRepo,
		rateLimiter: rateLimiter,
		listeners:   make(map[string]func([]*entity.Room)),
	}
}

// Start establishes the rooms subscription. Call once at boot.
func (uc *RoomDirectoryUseCase) Start(ctx context.Context) error {
	sub, err := uc.roomRepo.SubscribeAll(ctx,
		func(rooms []*entity.Room) {
			uc.mu.Lock()
			uc.rooms = rooms
			listeners := make([]func([]*entity.Room), 0, len(uc.listeners))
			for _, fn := range uc.listeners {
				listeners = append(listeners, fn)
			}
			uc.mu.Unlock()

			for _, fn := range listeners {
				fn(rooms)
			}
		},
		func(err error) {
			// Keep the last-known-good list; never reset to empty.
			logger.Error("Room directory subscription error: %v", err)
		},
	)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	uc.sub = sub
	uc.mu.Unlock()

	return nil
}

func (uc *RoomDirectoryUseCase) Close() {
	uc.mu.Lock()
	sub := uc.sub
	uc.sub = nil
	uc.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

// Rooms returns a copy of the current list, createdAt descending.
func (uc *RoomDirectoryUseCase) Rooms() []*entity.Room {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	rooms := make([]*entity.Room, len(uc.rooms))
	copy(rooms, uc.rooms)
	return rooms
}

// AddListener registers a callback invoked with every new room snapshot.
func (uc *RoomDirectoryUseCase) AddListener(id string, fn func([]*entity.Room)) {
	uc.mu.Lock()
	uc.listeners[id] = fn
	uc.mu.Unlock()
}

func (uc *RoomDirectoryUseCase) RemoveListener(id string) {
	uc.mu.Lock()
	delete(uc.listeners, id)
	uc.mu.Unlock()
}

type CreateRoomInput struct {
	Name        string
	Description string
}

func (uc *RoomDirectoryUseCase) CreateRoom(ctx context.Context, user *entity.UserProfile, input CreateRoomInput) (*entity.Room, error) {
	if allowed, waitTime := uc.rateLimiter.Allow(user.ID, "create_room"); !allowed {
		logger.Warn("CreateRoom rate limited: user %s must wait %v", user.ID, waitTime)
		return nil, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another room", waitTime)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.BadRequest("Room name is required", nil)
	}

	room := &entity.Room{
		Name:             name,
		Description:      strings.TrimSpace(input.Description),
		CreatedBy:        user.ID,
		ParticipantCount: 0,
	}

	if err := uc.roomRepo.Create(ctx, room); err != nil {
		logger.Error("CreateRoom failed for user %s: %v", user.ID, err)
		return nil, err
	}

	return room, nil
}

// ActiveViewers counts unexpired heartbeat records for a room. Unlike the raw
// participantCount it self-heals after an abrupt disconnect loses a decrement.
func (uc *RoomDirectoryUseCase) ActiveViewers(ctx context.Context, roomID string) (int, error) {
	if _, err := uc.roomRepo.GetByID(ctx, roomID); err != nil {
		return 0, err
	}
	return uc.roomRepo.CountActiveViewers(ctx, roomID)
}
