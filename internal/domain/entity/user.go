package entity

import "time"

type UserProfile struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	PhotoURL    string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	IsOnline    bool      `json:"is_online" firestore:"isOnline"`
	LastSeen    time.Time `json:"last_seen" firestore:"lastSeen"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
