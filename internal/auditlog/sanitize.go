package auditlog

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const redacted = "<redacted>"

var sensitiveKeys = map[string]struct{}{
	"privatekey": {},
	"mnemonic":   {},
	"secret":     {},
	"password":   {},
	"token":      {},
	"seed":       {},
}

// SanitizeDetails returns a deep copy of details with sensitive values
// redacted. Keys are matched case-insensitively, ignoring '_' and '-'. Nested
// maps and slices are sanitized as well. Values JSON cannot encode, such as
// NaN or channels, are replaced by their fmt.Sprint form so the record can
// always be persisted.
func SanitizeDetails(details Details) Details {
	sanitized := make(Details, len(details))
	for key, value := range details {
		if isSensitive(key) {
			sanitized[key] = redacted
			continue
		}
		sanitized[key] = sanitizeValue(value)
	}
	return sanitized
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, int, int32, int64, uint, uint32, uint64, json.Number:
		return v
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case Details:
		return SanitizeDetails(v)
	case map[string]any:
		return map[string]any(SanitizeDetails(Details(v)))
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			if isSensitive(k) {
				s = redacted
			}
			out[k] = s
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = sanitizeValue(e)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	}
	if _, err := json.Marshal(value); err != nil {
		return fmt.Sprint(value)
	}
	return value
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	return f
}

// clone returns a deep copy of d. Nil stays nil.
func (d Details) clone() Details {
	if d == nil {
		return nil
	}
	out := make(Details, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case Details:
		return v.clone()
	case map[string]any:
		return map[string]any(Details(v).clone())
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	}
	return value
}

// clone returns a copy of r that shares no mutable state with it.
func (r Record) clone() Record {
	r.Details = r.Details.clone()
	return r
}

func cloneRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.clone()
	}
	return out
}

func isSensitive(key string) bool {
	normalized := strings.ToLower(key)
	normalized = strings.NewReplacer("_", "", "-", "").Replace(normalized)
	_, ok := sensitiveKeys[normalized]
	return ok
}
