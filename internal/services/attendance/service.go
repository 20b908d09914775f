// Package attendance implements the attendance state engine: it ingests
// join/leave/move presence events, tracks open sessions, accumulates per-user
// presence totals, and maintains a bounded audit history.
package attendance

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/rollcall/internal/broadcast"
	"github.com/KirkDiggler/rollcall/internal/common/uuid"
	"github.com/KirkDiggler/rollcall/internal/export"
	"github.com/KirkDiggler/rollcall/internal/models"
	snapshotRepo "github.com/KirkDiggler/rollcall/internal/repositories/snapshot"
)

// service implements the Service interface
type service struct {
	snapshotRepo  snapshotRepo.Repository
	broadcaster   broadcast.Broadcaster
	uuidGenerator uuid.UUID
	historyLimit  int

	// mu serializes mutation; current is the immutable snapshot value
	// replaced after every accepted event
	mu      sync.RWMutex
	active  map[string]*models.Session
	history []*models.HistoryEntry
	totals  map[string]int64
	current *models.Snapshot
}

// New creates a new attendance engine
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SnapshotRepo == nil {
		return nil, ErrNilSnapshotRepo
	}

	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}

	uuidGenerator := cfg.UUIDGenerator
	if uuidGenerator == nil {
		uuidGenerator = uuid.New()
	}

	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	s := &service{
		snapshotRepo:  cfg.SnapshotRepo,
		broadcaster:   cfg.Broadcaster,
		uuidGenerator: uuidGenerator,
		historyLimit:  historyLimit,
		active:        make(map[string]*models.Session),
		history:       []*models.HistoryEntry{},
		totals:        make(map[string]int64),
	}
	s.current = s.buildSnapshotLocked()

	return s, nil
}

// ApplyEvent ingests one presence event
func (s *service) ApplyEvent(ctx context.Context, input *ApplyEventInput) (*ApplyEventOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if err := validateEvent(input); err != nil {
		return nil, err
	}

	s.mu.Lock()

	switch input.Type {
	case models.EventTypeJoin:
		s.applyJoinLocked(input.User, input.Channel, input.Time)
	case models.EventTypeLeave:
		s.applyLeaveLocked(input.User, input.Channel, input.Time)
	case models.EventTypeMove:
		s.applyMoveLocked(input.User, input.FromChannel, input.Channel, input.Time)
	}

	snap := s.buildSnapshotLocked()
	s.current = snap
	s.mu.Unlock()

	// Persistence and broadcast are best-effort: the in-memory state is the
	// source of truth and a failed write never rolls it back.
	if err := s.snapshotRepo.Save(ctx, &snapshotRepo.SaveInput{Snapshot: snap}); err != nil {
		log.Printf("Failed to persist attendance snapshot: %v", err)
	}
	s.broadcaster.Publish(snap)

	return &ApplyEventOutput{Snapshot: snap}, nil
}

func validateEvent(input *ApplyEventInput) error {
	if input.User == "" {
		return ErrMissingUser
	}

	if input.Time.IsZero() {
		return ErrMissingTime
	}

	switch input.Type {
	case models.EventTypeJoin, models.EventTypeLeave, models.EventTypeMove:
	default:
		return ErrUnknownEventType
	}

	if input.Channel == "" {
		return ErrMissingChannel
	}

	return nil
}

// applyJoinLocked opens a session for the user. A duplicate join overwrites
// the previous start time and credits nothing for the discarded session, so a
// replayed join can never double-count.
func (s *service) applyJoinLocked(user, channel string, at time.Time) {
	s.active[user] = &models.Session{
		User:     user,
		Channel:  channel,
		JoinedAt: at,
	}
	s.appendHistoryLocked(models.EventTypeJoin, user, channel, at)
}

// applyLeaveLocked closes the user's session and credits its duration. A
// leave with no open session changes no totals but is still logged for audit.
func (s *service) applyLeaveLocked(user, channel string, at time.Time) {
	if session, ok := s.active[user]; ok {
		seconds := int64(at.Sub(session.JoinedAt).Seconds())
		if seconds < 0 {
			seconds = 0
		}
		s.totals[user] += seconds
		delete(s.active, user)
	}
	s.appendHistoryLocked(models.EventTypeLeave, user, channel, at)
}

// applyMoveLocked is an atomic leave-then-join against the same timestamp
func (s *service) applyMoveLocked(user, fromChannel, toChannel string, at time.Time) {
	leaveChannel := fromChannel
	if session, ok := s.active[user]; ok && leaveChannel == "" {
		leaveChannel = session.Channel
	}

	s.applyLeaveLocked(user, leaveChannel, at)
	s.applyJoinLocked(user, toChannel, at)
}

func (s *service) appendHistoryLocked(eventType models.EventType, user, channel string, at time.Time) {
	entry := &models.HistoryEntry{
		ID:      s.uuidGenerator.NewUUID(),
		Type:    eventType,
		User:    user,
		Channel: channel,
		Time:    at,
	}

	s.history = append([]*models.HistoryEntry{entry}, s.history...)
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}
}

// GetSnapshot returns the current read-only snapshot
func (s *service) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &GetSnapshotOutput{Snapshot: s.current}, nil
}

// Bootstrap seeds open sessions for users already present at startup. No
// history entries are appended because no event actually occurred.
func (s *service) Bootstrap(ctx context.Context, input *BootstrapInput) (*BootstrapOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if input.Time.IsZero() {
		return nil, ErrMissingTime
	}

	s.mu.Lock()

	seeded := 0
	for _, present := range input.Present {
		if present.User == "" || present.Channel == "" {
			continue
		}
		if _, ok := s.active[present.User]; ok {
			continue
		}
		s.active[present.User] = &models.Session{
			User:     present.User,
			Channel:  present.Channel,
			JoinedAt: input.Time,
		}
		seeded++
	}

	snap := s.buildSnapshotLocked()
	s.current = snap
	s.mu.Unlock()

	if seeded > 0 {
		if err := s.snapshotRepo.Save(ctx, &snapshotRepo.SaveInput{Snapshot: snap}); err != nil {
			log.Printf("Failed to persist attendance snapshot: %v", err)
		}
		s.broadcaster.Publish(snap)
	}

	return &BootstrapOutput{Seeded: seeded}, nil
}

// Restore replaces engine state wholesale from a persisted snapshot. A nil
// snapshot resets the engine to an empty state, the recoverable cold start.
func (s *service) Restore(ctx context.Context, input *RestoreInput) (*RestoreOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	restored := input.Snapshot != nil
	snap := input.Snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = make(map[string]*models.Session, len(snap.Active))
	for user, session := range snap.Active {
		s.active[user] = session
	}

	s.history = snap.History
	if len(s.history) > s.historyLimit {
		s.history = s.history[:s.historyLimit]
	}

	s.totals = make(map[string]int64, len(snap.Totals))
	for user, total := range snap.Totals {
		s.totals[user] = total
	}

	s.current = s.buildSnapshotLocked()

	return &RestoreOutput{Restored: restored}, nil
}

// GetLeaderboard returns cumulative presence totals sorted descending, ties
// broken by user name
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	s.mu.RLock()
	snap := s.current
	s.mu.RUnlock()

	entries := make([]*models.LeaderboardEntry, 0, len(snap.Totals))
	for user, total := range snap.Totals {
		entries = append(entries, &models.LeaderboardEntry{
			User:         user,
			TotalSeconds: total,
			Formatted:    export.FormatDuration(total),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalSeconds != entries[j].TotalSeconds {
			return entries[i].TotalSeconds > entries[j].TotalSeconds
		}
		return entries[i].User < entries[j].User
	})

	return &GetLeaderboardOutput{Entries: entries}, nil
}

// buildSnapshotLocked deep-copies engine state into a fresh immutable snapshot
func (s *service) buildSnapshotLocked() *models.Snapshot {
	snap := &models.Snapshot{
		Active:  make(map[string]*models.Session, len(s.active)),
		History: make([]*models.HistoryEntry, len(s.history)),
		Totals:  make(map[string]int64, len(s.totals)),
	}

	for user, session := range s.active {
		copied := *session
		snap.Active[user] = &copied
	}

	for i, entry := range s.history {
		copied := *entry
		snap.History[i] = &copied
	}

	for user, total := range s.totals {
		snap.Totals[user] = total
	}

	return snap
}
