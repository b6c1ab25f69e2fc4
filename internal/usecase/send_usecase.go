package usecase

import (
	"context"
	"strings"
	"sync"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/internal/infrastructure/ratelimit"
	"ruangchat/pkg/logger"
)

// Composer is the per-session optimistic send pipeline. Submit clears the
// draft before the write is confirmed; a failed write restores the captured
// draft so the sender can retry without retyping. There is no lock across
// overlapping submits: each send is an independent document creation.
type Composer struct {
	messageRepo repository.MessageRepository
	roomRepo    repository.RoomRepository
	rateLimiter *ratelimit.RateLimiter
	onState     func(draft string, sending bool)

	mu      sync.Mutex
	draft   string
	sending bool
}

func NewComposer(messageRepo repository.MessageRepository, roomRepo repository.RoomRepository, rateLimiter *ratelimit.RateLimiter, onState func(draft string, sending bool)) *Composer {
	return &Composer{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
		rateLimiter: rateLimiter,
		onState:     onState,
	}
}

func (c *Composer) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

func (c *Composer) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Composer) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Submit runs one send attempt for the given sender and room. Whitespace-only
// drafts, a missing user, or no selected room are silent no-ops with no state
// transition.
func (c *Composer) Submit(ctx context.Context, user *entity.UserProfile, roomID string) {
	c.mu.Lock()
	text := strings.TrimSpace(c.draft)
	if text == "" || user == nil || roomID == "" {
		c.mu.Unlock()
		return
	}

	if allowed, waitTime := c.rateLimiter.Allow(user.ID, "send_message"); !allowed {
		c.mu.Unlock()
		logger.Warn("Send rate limited: user %s must wait %v", user.ID, waitTime)
		return
	}

	captured := c.draft
	c.draft = ""
	c.sending = true
	c.publishLocked()
	c.mu.Unlock()

	message := &entity.Message{
		RoomID:      roomID,
		SenderID:    user.ID,
		SenderName:  user.DisplayName,
		SenderPhoto: user.PhotoURL,
		Text:        text,
		Reactions:   map[string][]string{},
	}

	if err := c.messageRepo.Create(ctx, message); err != nil {
		logger.Error("Message send failed for room %s: %v", roomID, err)

		c.mu.Lock()
		c.draft = captured
		c.sending = false
		c.publishLocked()
		c.mu.Unlock()
		return
	}

	// The preview write rides on the message's success and is best-effort.
	preview := &entity.LastMessage{
		Text:       text,
		SenderName: user.DisplayName,
	}
	if err := c.roomRepo.SetLastMessage(ctx, roomID, preview); err != nil {
		logger.Warn("Last message preview update failed for room %s: %v", roomID, err)
	}

	c.mu.Lock()
	c.sending = false
	c.publishLocked()
	c.mu.Unlock()
}

// publishLocked mirrors draft/sending to the UI. Caller holds c.mu.
func (c *Composer) publishLocked() {
	if c.onState != nil {
		c.onState(c.draft, c.sending)
	}
}
