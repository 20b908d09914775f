package models

import (
	"time"
)

// EventType represents the kind of presence transition
type EventType string

const (
	// EventTypeJoin indicates a user entered a tracked voice channel
	EventTypeJoin EventType = "join"

	// EventTypeLeave indicates a user left a tracked voice channel
	EventTypeLeave EventType = "leave"

	// EventTypeMove indicates a user switched between tracked voice channels
	EventTypeMove EventType = "move"
)

// HistoryEntry is an immutable audit record of one accepted presence transition
type HistoryEntry struct {
	// ID is the unique identifier for this entry
	ID string `json:"id"`

	// Type is the kind of transition that was recorded
	Type EventType `json:"type"`

	// User is the display name of the user the transition applies to
	User string `json:"user"`

	// Channel is the voice channel the transition happened in
	Channel string `json:"channel"`

	// Time is when the transition was recorded
	Time time.Time `json:"time"`
}
