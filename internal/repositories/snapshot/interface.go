package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/rollcall/internal/repositories/snapshot Repository

import (
	"context"

	"github.com/KirkDiggler/rollcall/internal/models"
)

// Repository defines the interface for snapshot persistence
type Repository interface {
	// Save persists the attendance snapshot
	Save(ctx context.Context, input *SaveInput) error

	// Load retrieves the most recently saved snapshot
	Load(ctx context.Context, input *LoadInput) (*models.Snapshot, error)
}
