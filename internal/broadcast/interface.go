package broadcast

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/KirkDiggler/rollcall/internal/broadcast Broadcaster

import (
	"github.com/KirkDiggler/rollcall/internal/models"
)

// Broadcaster fans out attendance snapshots to connected viewers
type Broadcaster interface {
	// Publish pushes a snapshot to every connected viewer. Publish is
	// best-effort: delivery failures must not affect the caller.
	Publish(snapshot *models.Snapshot)
}
