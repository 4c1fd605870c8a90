package auditlog

import (
	"strings"
	"time"
)

// Filter constrains Query results. Zero-valued fields are ignored.
type Filter struct {
	ActorID  string
	Action   Action
	Severity Severity

	// Since and Until are inclusive timestamp bounds.
	Since time.Time
	Until time.Time

	// Limit caps the number of results. Zero or negative means no cap.
	Limit int
}

// Matches reports whether r satisfies every set field of f, ignoring Limit.
// Actor IDs compare case-insensitively since hex addresses arrive in either
// case.
func (f Filter) Matches(r Record) bool {
	if f.ActorID != "" && !strings.EqualFold(r.ActorID, f.ActorID) {
		return false
	}
	if f.Action != "" && r.Action != f.Action {
		return false
	}
	if f.Severity != "" && r.Severity != f.Severity {
		return false
	}
	if !f.Since.IsZero() && r.Timestamp < f.Since.UnixMilli() {
		return false
	}
	if !f.Until.IsZero() && r.Timestamp > f.Until.UnixMilli() {
		return false
	}
	return true
}

// IsZero reports whether no field of f is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Query returns the records matching f, newest first.
func (s *Store) Query(f Filter) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, r := range s.records {
		if !f.Matches(r) {
			continue
		}
		out = append(out, r.clone())
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Stats aggregates the current log.
type Stats struct {
	Total      int              `json:"total"`
	ByAction   map[Action]int   `json:"byAction"`
	BySeverity map[Severity]int `json:"bySeverity"`
	ByActor    map[string]int   `json:"byActor"`

	// ByDay is keyed by UTC calendar day, formatted YYYY-MM-DD.
	ByDay map[string]int `json:"byDay"`

	// LastActivity is the timestamp of the newest record, or 0 when empty.
	LastActivity int64 `json:"lastActivity"`
}

// Stats returns aggregate counts over the whole log.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Total:      len(s.records),
		ByAction:   make(map[Action]int),
		BySeverity: make(map[Severity]int),
		ByActor:    make(map[string]int),
		ByDay:      make(map[string]int),
	}
	for _, r := range s.records {
		stats.ByAction[r.Action]++
		stats.BySeverity[r.Severity]++
		stats.ByActor[r.ActorID]++
		stats.ByDay[r.Time().Format("2006-01-02")]++
	}
	if len(s.records) > 0 {
		stats.LastActivity = s.records[0].Timestamp
	}
	return stats
}
