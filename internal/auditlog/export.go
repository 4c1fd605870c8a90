package auditlog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Format is an export serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for export formats other than json and csv.
var ErrUnsupportedFormat = errors.New("auditlog: unsupported export format")

// CSVHeader is the fixed column order of CSV exports.
var CSVHeader = []string{"ID", "Date", "Action", "Actor", "Role", "Severity", "Details"}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// ExportFilename returns the download name for an export taken at now.
func ExportFilename(f Format, now time.Time) string {
	return fmt.Sprintf("audit_trail_%s.%s", now.UTC().Format("2006-01-02"), f)
}

// Export serializes the full, unfiltered log.
func (s *Store) Export(f Format) ([]byte, error) {
	return Encode(s.Query(Filter{}), f)
}

// Encode serializes records in the given format.
func Encode(records []Record, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		if records == nil {
			records = []Record{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("auditlog: encode json: %w", err)
		}
		return data, nil
	case FormatCSV:
		return encodeCSV(records)
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
}

func encodeCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("auditlog: encode csv: %w", err)
	}
	for _, r := range records {
		details, err := json.Marshal(r.Details)
		if err != nil {
			return nil, fmt.Errorf("auditlog: encode details of %s: %w", r.ID, err)
		}
		row := []string{r.ID, r.Date, string(r.Action), r.ActorID, r.ActorRole, string(r.Severity), string(details)}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("auditlog: encode csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("auditlog: encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
