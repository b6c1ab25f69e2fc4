package websocket

import (
	"encoding/json"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/usecase"
)

// Wire protocol: every frame in both directions is {"type": ..., "data": ...}.

type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type serverEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type selectRoomPayload struct {
	RoomID string `json:"room_id"`
}

type sendMessagePayload struct {
	Text string `json:"text"`
}

type setDraftPayload struct {
	Text string `json:"text"`
}

type visibilityPayload struct {
	Hidden bool `json:"hidden"`
}

type roomsPayload struct {
	Rooms []*entity.Room `json:"rooms"`
}

type messagesPayload struct {
	RoomID   string                   `json:"room_id"`
	Messages []usecase.GroupedMessage `json:"messages"`
}

type composerPayload struct {
	Draft   string `json:"draft"`
	Sending bool   `json:"sending"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
