package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/logger"
)

// Consecutive messages from the same sender inside this window render without
// a repeated sender header.
const groupWindow = 5 * time.Minute

// GroupedMessage is a message annotated with its presentation grouping flag.
type GroupedMessage struct {
	*entity.Message
	ShowHeader bool `json:"show_header"`
}

// MessageStream projects the message list for exactly one room at a time. Each
// websocket session owns one. Changing the room tears the old subscription
// down before the new one is established, and an epoch counter makes snapshots
// from a dead subscription no-ops, so a late arrival from the previous room
// can never overwrite the current room's list.
type MessageStream struct {
	messageRepo repository.MessageRepository
	onChange    func(roomID string, messages []GroupedMessage)

	mu       sync.Mutex
	roomID   string
	epoch    uint64
	sub      repository.Subscription
	messages []GroupedMessage
}

func NewMessageStream(messageRepo repository.MessageRepository, onChange func(roomID string, messages []GroupedMessage)) *MessageStream {
	return &MessageStream{
		messageRepo: messageRepo,
		onChange:    onChange,
	}
}

// RoomID returns the currently selected room, or "" when none is.
func (s *MessageStream) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Messages returns a copy of the current projection.
func (s *MessageStream) Messages() []GroupedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]GroupedMessage, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// SetRoom switches the stream to roomID. The previous subscription is
// cancelled first. Selecting the already-selected room is a no-op.
func (s *MessageStream) SetRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	if roomID == s.roomID {
		s.mu.Unlock()
		return nil
	}

	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	s.epoch++
	epoch := s.epoch
	s.roomID = roomID
	s.messages = nil
	s.mu.Unlock()

	s.publish(roomID, nil)

	if roomID == "" {
		return nil
	}

	sub, err := s.messageRepo.SubscribeByRoom(ctx, roomID,
		func(messages []*entity.Message) {
			s.apply(epoch, roomID, messages)
		},
		func(err error) {
			// Last-known-good list stays in place.
			logger.Error("Message subscription error for room %s: %v", roomID, err)
		},
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// The room changed again while we were subscribing.
		s.mu.Unlock()
		sub.Cancel()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()

	return nil
}

// Close tears down the active subscription. The stream can be reused with a
// later SetRoom.
func (s *MessageStream) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.epoch++
	s.roomID = ""
	s.messages = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Cancel()
	}
}

func (s *MessageStream) apply(epoch uint64, roomID string, messages []*entity.Message) {
	projected := projectMessages(messages, roomID)

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	s.messages = projected
	s.mu.Unlock()

	s.publish(roomID, projected)
}

func (s *MessageStream) publish(roomID string, messages []GroupedMessage) {
	if s.onChange != nil {
		s.onChange(roomID, messages)
	}
}

// projectMessages derives the published list from a snapshot: filtered to the
// room, ascending by timestamp, each entry carrying its grouping flag. Pure,
// so applying the same snapshot twice yields the same list.
func projectMessages(messages []*entity.Message, roomID string) []GroupedMessage {
	filtered := make([]*entity.Message, 0, len(messages))
	for _, m := range messages {
		if m.RoomID == roomID {
			filtered = append(filtered, m)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.Before(filtered[j].Timestamp)
	})

	projected := make([]GroupedMessage, len(filtered))
	var prev *entity.Message
	for i, m := range filtered {
		projected[i] = GroupedMessage{
			Message:    m,
			ShowHeader: !continuesGroup(prev, m),
		}
		prev = m
	}

	return projected
}

// continuesGroup reports whether cur can be rendered without a sender header:
// same sender as prev and a gap under the grouping window.
func continuesGroup(prev, cur *entity.Message) bool {
	if prev == nil || prev.SenderID != cur.SenderID {
		return false
	}
	gap := cur.Timestamp.Sub(prev.Timestamp)
	return gap >= 0 && gap < groupWindow
}
