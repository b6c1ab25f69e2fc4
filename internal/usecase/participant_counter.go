package usecase

import (
	"context"
	"sync"
	"time"

	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/logger"
)

const (
	viewerTTL         = 45 * time.Second
	heartbeatInterval = 15 * time.Second
)

// ParticipantCounter is the per-session Inactive/Active state machine that
// keeps a room's participantCount in step with viewing clients. Activation
// issues an atomic +1 transform, deactivation an atomic -1; both are
// fire-and-forget. While active, a heartbeat goroutine refreshes the session's
// viewer record so the count can be recomputed from unexpired records if a
// decrement is ever lost to an abrupt disconnect.
type ParticipantCounter struct {
	roomRepo repository.RoomRepository
	uid      string

	mu              sync.Mutex
	roomID          string
	heartbeatCancel context.CancelFunc
}

func NewParticipantCounter(roomRepo repository.RoomRepository, uid string) *ParticipantCounter {
	return &ParticipantCounter{
		roomRepo: roomRepo,
		uid:      uid,
	}
}

// Activate transitions the counter to Active for roomID, deactivating any
// previously active room first.
func (c *ParticipantCounter) Activate(ctx context.Context, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.roomID == roomID {
		return
	}
	c.deactivateLocked()

	if roomID == "" {
		return
	}
	c.roomID = roomID

	if err := c.roomRepo.AdjustParticipantCount(ctx, roomID, 1); err != nil {
		logger.Warn("Participant increment failed for room %s: %v", roomID, err)
	}
	if err := c.roomRepo.TouchViewer(ctx, roomID, c.uid, viewerTTL); err != nil {
		logger.Warn("Viewer heartbeat write failed for room %s: %v", roomID, err)
	}

	hbCtx, cancel := context.WithCancel(context.Background())
	c.heartbeatCancel = cancel
	go c.heartbeat(hbCtx, roomID)
}

// Deactivate transitions back to Inactive. Safe to call repeatedly; the
// decrement is still attempted during session teardown.
func (c *ParticipantCounter) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deactivateLocked()
}

func (c *ParticipantCounter) deactivateLocked() {
	if c.roomID == "" {
		return
	}
	roomID := c.roomID
	c.roomID = ""

	if c.heartbeatCancel != nil {
		c.heartbeatCancel()
		c.heartbeatCancel = nil
	}

	// Teardown may race a dying connection; use a fresh context so the
	// decrement is still attempted.
	ctx := context.Background()
	if err := c.roomRepo.AdjustParticipantCount(ctx, roomID, -1); err != nil {
		logger.Warn("Participant decrement failed for room %s: %v", roomID, err)
	}
	if err := c.roomRepo.RemoveViewer(ctx, roomID, c.uid); err != nil {
		logger.Warn("Viewer record removal failed for room %s: %v", roomID, err)
	}
}

func (c *ParticipantCounter) heartbeat(ctx context.Context, roomID string) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.roomRepo.TouchViewer(ctx, roomID, c.uid, viewerTTL); err != nil {
				logger.Warn("Viewer heartbeat write failed for room %s: %v", roomID, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
