package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/internal/infrastructure/ratelimit"
	"ruangchat/internal/usecase"
	"ruangchat/pkg/logger"
)

// SessionDeps carries everything a session needs; handed in by the handler so
// the session layer holds no package state.
type SessionDeps struct {
	Rooms       *usecase.RoomDirectoryUseCase
	Presence    *usecase.PresenceUseCase
	MessageRepo repository.MessageRepository
	RoomRepo    repository.RoomRepository
	RateLimiter *ratelimit.RateLimiter
}

// Session binds one connection to its per-connection projections: the message
// stream, participant counter, and composer all live and die with the socket.
type Session struct {
	client   *Client
	manager  *Manager
	user     *entity.UserProfile
	rooms    *usecase.RoomDirectoryUseCase
	presence *usecase.PresenceUseCase

	stream   *usecase.MessageStream
	counter  *usecase.ParticipantCounter
	composer *usecase.Composer

	mu           sync.Mutex
	selectedRoom string
}

func NewSession(client *Client, manager *Manager, user *entity.UserProfile, deps SessionDeps) *Session {
	s := &Session{
		client:   client,
		manager:  manager,
		user:     user,
		rooms:    deps.Rooms,
		presence: deps.Presence,
	}

	s.stream = usecase.NewMessageStream(deps.MessageRepo, s.pushMessages)
	s.counter = usecase.NewParticipantCounter(deps.RoomRepo, user.ID)
	s.composer = usecase.NewComposer(deps.MessageRepo, deps.RoomRepo, deps.RateLimiter, s.pushComposer)

	return s
}

// Start attaches the session to the shared room directory and sends the
// initial state.
func (s *Session) Start() {
	s.rooms.AddListener(s.client.ID, func(rooms []*entity.Room) {
		s.push("rooms", roomsPayload{Rooms: rooms})
	})

	s.push("rooms", roomsPayload{Rooms: s.rooms.Rooms()})
	s.push("composer_state", composerPayload{})
}

// Close tears the session down: the message subscription is cancelled and the
// participant decrement is still attempted.
func (s *Session) Close() {
	s.rooms.RemoveListener(s.client.ID)
	s.stream.Close()
	s.counter.Deactivate()
}

// ReadPump reads events from the socket until it closes.
func (s *Session) ReadPump() {
	defer func() {
		s.Close()
		s.manager.Unregister <- s.client
		s.client.Conn.Close()
	}()

	for {
		_, raw, err := s.client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("Read failed for client %s: %v", s.client.ID, err)
			}
			return
		}

		s.handleEvent(raw)
	}
}

func (s *Session) handleEvent(raw []byte) {
	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		s.pushError("BAD_EVENT", "Malformed event")
		return
	}

	ctx := context.Background()

	switch event.Type {
	case "select_room":
		var payload selectRoomPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			s.pushError("BAD_EVENT", "Malformed select_room payload")
			return
		}
		s.selectRoom(ctx, payload.RoomID)

	case "set_draft":
		var payload setDraftPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			s.pushError("BAD_EVENT", "Malformed set_draft payload")
			return
		}
		s.composer.SetDraft(payload.Text)

	case "send_message":
		var payload sendMessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			s.pushError("BAD_EVENT", "Malformed send_message payload")
			return
		}
		s.composer.SetDraft(payload.Text)
		s.mu.Lock()
		roomID := s.selectedRoom
		s.mu.Unlock()
		// Submitted off the read loop so a slow write never stalls the socket;
		// overlapping sends are independent document creations.
		go s.composer.Submit(ctx, s.user, roomID)

	case "visibility":
		var payload visibilityPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			s.pushError("BAD_EVENT", "Malformed visibility payload")
			return
		}
		go s.presence.HandleVisibility(ctx, s.user.ID, payload.Hidden)

	default:
		s.pushError("UNKNOWN_EVENT", "Unknown event type: "+event.Type)
	}
}

// selectRoom switches the active room: the counter transitions rooms and the
// stream unsubscribes from the old query before subscribing to the new one.
func (s *Session) selectRoom(ctx context.Context, roomID string) {
	s.mu.Lock()
	if s.selectedRoom == roomID {
		s.mu.Unlock()
		return
	}
	s.selectedRoom = roomID
	s.mu.Unlock()

	s.counter.Activate(ctx, roomID)
	if err := s.stream.SetRoom(ctx, roomID); err != nil {
		logger.Error("Room subscription failed for client %s: %v", s.client.ID, err)
		s.pushError("SUBSCRIBE_FAILED", "Could not subscribe to room messages")
	}
}

func (s *Session) pushMessages(roomID string, messages []usecase.GroupedMessage) {
	s.push("messages", messagesPayload{RoomID: roomID, Messages: messages})
}

func (s *Session) pushComposer(draft string, sending bool) {
	s.push("composer_state", composerPayload{Draft: draft, Sending: sending})
}

func (s *Session) pushError(code, message string) {
	s.push("error", errorPayload{Code: code, Message: message})
}

func (s *Session) push(eventType string, data interface{}) {
	raw, err := json.Marshal(serverEvent{Type: eventType, Data: data})
	if err != nil {
		logger.Error("Failed to marshal %s event: %v", eventType, err)
		return
	}
	s.manager.Push(s.client, raw)
}
