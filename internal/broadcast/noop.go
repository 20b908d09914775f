package broadcast

import (
	"github.com/KirkDiggler/rollcall/internal/models"
)

// Noop is a Broadcaster that discards every snapshot, for wiring the engine
// without a web front end
type Noop struct{}

// NewNoop creates a new no-op broadcaster
func NewNoop() *Noop {
	return &Noop{}
}

// Publish discards the snapshot
func (n *Noop) Publish(_ *models.Snapshot) {}
