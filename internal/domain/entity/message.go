package entity

import "time"

type Message struct {
	ID          string              `json:"id" firestore:"-"`
	RoomID      string              `json:"room_id" firestore:"roomId"`
	SenderID    string              `json:"sender_id" firestore:"senderId"`
	SenderName  string              `json:"sender_name" firestore:"senderName"`
	SenderPhoto string              `json:"sender_photo,omitempty" firestore:"senderPhoto,omitempty"`
	Text        string              `json:"text" firestore:"text"`
	Timestamp   time.Time           `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	Reactions   map[string][]string `json:"reactions" firestore:"reactions"` // emoji -> reacting user ids, reserved
}
