package auditlog

import "time"

// Action identifies the kind of tracked event.
type Action string

const (
	ActionProductAdded     Action = "PRODUCT_ADDED"
	ActionProductViewed    Action = "PRODUCT_VIEWED"
	ActionProductExported  Action = "PRODUCT_EXPORTED"
	ActionUserLogin        Action = "USER_LOGIN"
	ActionUserLogout       Action = "USER_LOGOUT"
	ActionAdminAdded       Action = "ADMIN_ADDED"
	ActionAdminRemoved     Action = "ADMIN_REMOVED"
	ActionFilterApplied    Action = "FILTER_APPLIED"
	ActionSearchApplied    Action = "SEARCH_APPLIED"
	ActionSortApplied      Action = "SORT_APPLIED"
	ActionSystemError      Action = "SYSTEM_ERROR"
	ActionPermissionDenied Action = "PERMISSION_DENIED"
)

// Actions lists every known action in display order.
var Actions = []Action{
	ActionProductAdded,
	ActionProductViewed,
	ActionProductExported,
	ActionUserLogin,
	ActionUserLogout,
	ActionAdminAdded,
	ActionAdminRemoved,
	ActionFilterApplied,
	ActionSearchApplied,
	ActionSortApplied,
	ActionSystemError,
	ActionPermissionDenied,
}

// Severity is a coarse classification of an action's sensitivity.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity from least to most sensitive.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

var defaultSeverity = map[Action]Severity{
	ActionProductAdded:     SeverityHigh,
	ActionProductViewed:    SeverityLow,
	ActionProductExported:  SeverityMedium,
	ActionUserLogin:        SeverityMedium,
	ActionUserLogout:       SeverityLow,
	ActionAdminAdded:       SeverityCritical,
	ActionAdminRemoved:     SeverityCritical,
	ActionFilterApplied:    SeverityLow,
	ActionSearchApplied:    SeverityLow,
	ActionSortApplied:      SeverityLow,
	ActionSystemError:      SeverityCritical,
	ActionPermissionDenied: SeverityHigh,
}

// DefaultSeverity returns the fixed severity for an action. Unknown actions
// are classified as medium.
func DefaultSeverity(action Action) Severity {
	if s, ok := defaultSeverity[action]; ok {
		return s
	}
	return SeverityMedium
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	_, ok := defaultSeverity[a]
	return ok
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

const (
	UnknownActor = "unknown"
	UnknownRole  = "unknown"
)

// Actor is the principal performing a tracked action.
type Actor struct {
	ID   string
	Role string
}

// Details holds action-specific values. Values JSON cannot encode are stored
// as their fmt.Sprint form.
type Details map[string]any

// Record is a single immutable audit entry.
type Record struct {
	ID        string   `json:"id"`
	Action    Action   `json:"action"`
	ActorID   string   `json:"actorId"`
	ActorRole string   `json:"actorRole"`
	Details   Details  `json:"details"`
	Severity  Severity `json:"severity"`
	Timestamp int64    `json:"timestamp"`
	Date      string   `json:"date"`
	IPAddress string   `json:"ipAddress,omitempty"`
	UserAgent string   `json:"userAgent,omitempty"`
}

// Time returns the record timestamp as a time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}
