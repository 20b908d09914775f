package models

import (
	"time"
)

// Session represents one contiguous interval a user is present in a voice channel
type Session struct {
	// User is the display name the session is tracked under
	User string `json:"user"`

	// Channel is the name of the voice channel the user is in
	Channel string `json:"channel"`

	// JoinedAt is when the session started
	JoinedAt time.Time `json:"joinedAt"`
}
