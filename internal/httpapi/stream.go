package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pharmacertlabs/pharmacert/internal/auditlog"

	"go.uber.org/zap"
)

// streamBuffer bounds the updates queued for a slow client. When full, the
// oldest queued update is dropped; the newest always carries the current total.
const streamBuffer = 16

var errStreamUnsupported = errors.New("streaming unsupported")

// auditEvent is the payload of one "audit" event.
type auditEvent struct {
	Total  int              `json:"total"`
	Latest *auditlog.Record `json:"latest"`
	Time   int64            `json:"time"`
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "%v", errStreamUnsupported)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates := make(chan auditEvent, streamBuffer)
	unsubscribe := s.audit.Subscribe(func(records []auditlog.Record) {
		ev := auditEvent{Total: len(records), Time: time.Now().UnixMilli()}
		if len(records) > 0 {
			latest := records[0]
			ev.Latest = &latest
		}
		for {
			select {
			case updates <- ev:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	if err := writeEvent(w, "connected", auditEvent{Total: s.audit.Len(), Time: time.Now().UnixMilli()}); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("audit stream closed", zap.Error(r.Context().Err()))
			return
		case ev := <-updates:
			if err := writeEvent(w, "audit", ev); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
