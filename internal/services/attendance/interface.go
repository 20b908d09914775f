package attendance

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/rollcall/internal/services/attendance Service

import "context"

// Service defines the interface for the attendance engine
type Service interface {
	// ApplyEvent ingests one presence event. It is the sole mutating entry
	// point; events for overlapping state must not be applied concurrently.
	ApplyEvent(ctx context.Context, input *ApplyEventInput) (*ApplyEventOutput, error)

	// GetSnapshot returns the current read-only snapshot
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)

	// Bootstrap seeds open sessions for users already present at startup
	Bootstrap(ctx context.Context, input *BootstrapInput) (*BootstrapOutput, error)

	// Restore replaces engine state wholesale from a persisted snapshot
	Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error)

	// GetLeaderboard returns cumulative presence totals, longest first
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
