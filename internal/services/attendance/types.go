package attendance

import (
	"time"

	"github.com/KirkDiggler/rollcall/internal/broadcast"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/models"
	snapshotRepo "github.com/KirkDiggler/rollcall/internal/repositories/snapshot"
)

// DefaultHistoryLimit caps the history log when no limit is configured
const DefaultHistoryLimit = 100

// Config holds configuration for the attendance engine
type Config struct {
	// HistoryLimit caps the number of retained history entries. Zero means
	// DefaultHistoryLimit.
	HistoryLimit int

	// Repository dependencies
	SnapshotRepo snapshotRepo.Repository

	// Collaborator dependencies
	Broadcaster broadcast.Broadcaster

	// UUIDGenerator stamps history entries; defaults to random UUIDs
	UUIDGenerator uuid.UUID
}

// ApplyEventInput describes one inbound presence event
type ApplyEventInput struct {
	// Type is the kind of transition: join, leave, or move
	Type models.EventType

	// User is the display name of the user the event applies to
	User string

	// Channel is the channel joined (join/move) or left (leave)
	Channel string

	// FromChannel is the channel left during a move
	FromChannel string

	// Time is when the event happened at the source
	Time time.Time
}

// ApplyEventOutput contains the result of applying an event
type ApplyEventOutput struct {
	// Snapshot is the state after the event was applied
	Snapshot *models.Snapshot
}

// GetSnapshotInput contains parameters for reading the current snapshot
type GetSnapshotInput struct {
}

// GetSnapshotOutput contains the current snapshot
type GetSnapshotOutput struct {
	Snapshot *models.Snapshot
}

// PresentUser identifies a user already in a voice channel at startup
type PresentUser struct {
	User    string
	Channel string
}

// BootstrapInput contains parameters for seeding sessions at startup
type BootstrapInput struct {
	// Present lists the users currently in tracked channels
	Present []PresentUser

	// Time is the approximate session start, since the true join time is
	// unknown
	Time time.Time
}

// BootstrapOutput contains the result of seeding sessions
type BootstrapOutput struct {
	// Seeded is the number of sessions opened
	Seeded int
}

// RestoreInput contains parameters for restoring persisted state
type RestoreInput struct {
	// Snapshot is the persisted state to resume from. Nil resets the engine
	// to an empty cold-start state.
	Snapshot *models.Snapshot
}

// RestoreOutput contains the result of restoring state
type RestoreOutput struct {
	// Restored is false when the engine fell back to an empty state
	Restored bool
}

// GetLeaderboardInput contains parameters for reading the leaderboard
type GetLeaderboardInput struct {
}

// GetLeaderboardOutput contains the leaderboard entries, longest total first
type GetLeaderboardOutput struct {
	Entries []*models.LeaderboardEntry
}
