package entity

import "time"

type Room struct {
	ID               string       `json:"id" firestore:"-"`
	Name             string       `json:"name" firestore:"name"`
	Description      string       `json:"description,omitempty" firestore:"description,omitempty"`
	CreatedBy        string       `json:"created_by" firestore:"createdBy"`
	CreatedAt        time.Time    `json:"created_at" firestore:"createdAt,serverTimestamp"`
	ParticipantCount int64        `json:"participant_count" firestore:"participantCount"`
	LastMessage      *LastMessage `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
}

// LastMessage is the denormalized preview stored on a room so the directory
// can render without fetching the messages collection.
type LastMessage struct {
	Text       string    `json:"text" firestore:"text"`
	SenderName string    `json:"sender_name" firestore:"senderName"`
	Timestamp  time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}

// RoomViewer is a heartbeat record under rooms/{id}/viewers. A viewer whose
// expiresAt has passed no longer counts as present, even if its decrement
// transform was lost on an abrupt disconnect.
type RoomViewer struct {
	UserID    string    `json:"user_id" firestore:"userId"`
	LastSeen  time.Time `json:"last_seen" firestore:"lastSeen,serverTimestamp"`
	ExpiresAt time.Time `json:"expires_at" firestore:"expiresAt"`
}
