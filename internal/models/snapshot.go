package models

// Snapshot is the full, read-only projection of attendance state handed to
// broadcast and persistence collaborators. A Snapshot is never mutated after
// it is built; a new value replaces it after each accepted event.
type Snapshot struct {
	// Active maps user display names to their open sessions
	Active map[string]*Session `json:"active"`

	// History holds the most recent transitions, newest first
	History []*HistoryEntry `json:"history"`

	// Totals maps user display names to cumulative presence seconds
	Totals map[string]int64 `json:"totals"`
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Active:  make(map[string]*Session),
		History: []*HistoryEntry{},
		Totals:  make(map[string]int64),
	}
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return NewSnapshot()
	}

	clone := &Snapshot{
		Active:  make(map[string]*Session, len(s.Active)),
		History: make([]*HistoryEntry, len(s.History)),
		Totals:  make(map[string]int64, len(s.Totals)),
	}

	for user, session := range s.Active {
		copied := *session
		clone.Active[user] = &copied
	}

	for i, entry := range s.History {
		copied := *entry
		clone.History[i] = &copied
	}

	for user, total := range s.Totals {
		clone.Totals[user] = total
	}

	return clone
}
