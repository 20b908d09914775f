package snapshot

import "github.com/KirkDiggler/rollcall/internal/models"

type SaveInput struct {
	Snapshot *models.Snapshot
}

type LoadInput struct {
}
