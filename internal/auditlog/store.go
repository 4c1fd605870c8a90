// Package auditlog records, retains, queries, and exports a bounded history
// of user and system actions for compliance review.
//
// A Store keeps the authoritative log in memory, newest record first. It is
// loaded once from a kvstore.Backend when constructed and written back after
// every mutation. Persistence is best effort: backend failures are logged and
// never returned to callers.
package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pharmacertlabs/pharmacert/internal/kvstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// StorageKey is the backend key holding the serialized log.
	StorageKey = "pharma_audit_trail"

	// DefaultMaxRecords is the retention cap on the number of records.
	DefaultMaxRecords = 1000

	dayMillis = int64(24 * time.Hour / time.Millisecond)
)

// Store is the audit log. It is safe for concurrent use.
type Store struct {
	backend    kvstore.Backend
	key        string
	maxRecords int
	logger     *zap.Logger
	now        func() time.Time

	mu      sync.Mutex
	records []Record
	lastTS  int64
	subs    registry
}

// Option configures a Store.
type Option func(*Store)

// WithMaxRecords overrides the retention cap. Values below 1 are ignored.
func WithMaxRecords(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRecords = n
		}
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source. Intended for testing.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithKey overrides the backend key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore builds a store on backend and loads any persisted records.
// A nil backend keeps the log in memory only.
func NewStore(backend kvstore.Backend, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		key:        StorageKey,
		maxRecords: DefaultMaxRecords,
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	if s.backend == nil {
		return
	}

	data, err := s.backend.Get(s.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("audit log load failed", zap.String("key", s.key), zap.Error(err))
		}
		return
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("audit log is corrupt, starting empty", zap.String("key", s.key), zap.Error(err))
		return
	}
	if len(records) > s.maxRecords {
		records = records[:s.maxRecords]
	}
	s.records = records
	for _, r := range records {
		if r.Timestamp > s.lastTS {
			s.lastTS = r.Timestamp
		}
	}
}

// persist writes the current log to the backend. Callers hold s.mu.
func (s *Store) persist() {
	if s.backend == nil {
		return
	}

	data, err := json.Marshal(s.records)
	if err != nil {
		s.logger.Warn("audit log encode failed", zap.Error(err))
		return
	}
	if err := s.backend.Set(s.key, data); err != nil {
		s.logger.Warn("audit log save failed", zap.String("key", s.key), zap.Int("records", len(s.records)), zap.Error(err))
	}
}

// Record inserts a new record at the head of the log, persists the log, and
// notifies subscribers. An empty severity falls back to the action's default.
// Origin metadata is taken from ctx.
func (s *Store) Record(ctx context.Context, action Action, actor Actor, details Details, severity Severity) Record {
	if severity == "" {
		severity = DefaultSeverity(action)
	}
	if actor.ID == "" {
		actor.ID = UnknownActor
	}
	if actor.Role == "" {
		actor.Role = UnknownRole
	}
	origin := OriginFromContext(ctx)

	s.mu.Lock()
	ts := s.now().UnixMilli()
	if ts < s.lastTS {
		ts = s.lastTS
	}
	s.lastTS = ts

	record := Record{
		ID:        newID(ts),
		Action:    action,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Details:   SanitizeDetails(details),
		Severity:  severity,
		Timestamp: ts,
		Date:      time.UnixMilli(ts).UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		IPAddress: origin.IPAddress,
		UserAgent: origin.UserAgent,
	}

	records := make([]Record, 0, min(len(s.records)+1, s.maxRecords))
	records = append(records, record)
	records = append(records, s.records...)
	if len(records) > s.maxRecords {
		records = records[:s.maxRecords]
	}
	s.records = records
	s.persist()
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("audit record",
		zap.String("id", record.ID),
		zap.String("action", string(action)),
		zap.String("actor", actor.ID),
		zap.String("severity", string(severity)),
	)
	subs.notify(snapshot)
	return record.clone()
}

// PurgeOlderThan removes records whose timestamp is before now minus
// retentionDays days and returns how many were removed. Negative values are
// treated as zero.
func (s *Store) PurgeOlderThan(retentionDays int) int {
	if retentionDays < 0 {
		retentionDays = 0
	}

	s.mu.Lock()
	cutoff := s.now().UnixMilli() - int64(retentionDays)*dayMillis
	kept := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Timestamp >= cutoff {
			kept = append(kept, r)
		}
	}
	removed := len(s.records) - len(kept)
	s.records = kept
	s.persist()
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("audit purge", zap.Int("retention_days", retentionDays), zap.Int("removed", removed))
	subs.notify(snapshot)
	return removed
}

// Clear empties the log.
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.persist()
	snapshot, subs := s.snapshotLocked()
	s.mu.Unlock()

	subs.notify(snapshot)
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// MaxRecords returns the retention cap.
func (s *Store) MaxRecords() int {
	return s.maxRecords
}

// Subscribe registers fn to be called with the full record list after every
// mutating call. Callbacks run synchronously, in registration order, and each
// receives its own copy of the list. The
// returned function removes the registration; calling it again is a no-op.
func (s *Store) Subscribe(fn func([]Record)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.subs.add(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs.remove(id)
	}
}

// snapshotLocked copies the record slice and the subscriber list. Stored
// records are never modified in place, so the shallow copy stays valid after
// the lock is released. Callers hold s.mu.
func (s *Store) snapshotLocked() ([]Record, registry) {
	return append([]Record(nil), s.records...), s.subs.clone()
}

func newID(ts int64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("audit_%d_%s", ts, suffix)
}
