package domain

import "time"

// MaxMessageLength bounds Message.Text, counted in runes.
const MaxMessageLength = 140

// Message is a single post owned by exactly one user.
type Message struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
	User      *User     `json:"user,omitempty"`
}
