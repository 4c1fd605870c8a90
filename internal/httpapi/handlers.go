package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/notify"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, format string, args ...any) {
	s.writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

// parseFilter reads audit filter query parameters. Timestamps accept RFC 3339
// or Unix milliseconds.
func parseFilter(q url.Values) (auditlog.Filter, error) {
	f := auditlog.Filter{
		ActorID:  q.Get("actor"),
		Action:   auditlog.Action(q.Get("action")),
		Severity: auditlog.Severity(q.Get("severity")),
	}

	var err error
	if f.Since, err = parseTime(q.Get("since")); err != nil {
		return f, fmt.Errorf("since: %w", err)
	}
	if f.Until, err = parseTime(q.Get("until")); err != nil {
		return f, fmt.Errorf("until: %w", err)
	}
	if raw := q.Get("limit"); raw != "" {
		if f.Limit, err = strconv.Atoi(raw); err != nil || f.Limit < 0 {
			return f, fmt.Errorf("limit: %q is not a non-negative integer", raw)
		}
	}
	return f, nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor Unix milliseconds", raw)
	}
	return t, nil
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid filter: %v", err)
		return
	}
	records := s.audit.Query(f)
	if records == nil {
		records = []auditlog.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

type recordRequest struct {
	Action    auditlog.Action   `json:"action"`
	ActorID   string            `json:"actorId"`
	ActorRole string            `json:"actorRole"`
	Details   auditlog.Details  `json:"details"`
	Severity  auditlog.Severity `json:"severity"`
}

func (s *Server) handleRecordAudit(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body: %v", err)
		return
	}
	if !req.Action.Valid() {
		s.writeError(w, http.StatusBadRequest, "unknown action %q", req.Action)
		return
	}
	if req.Severity != "" && !req.Severity.Valid() {
		s.writeError(w, http.StatusBadRequest, "unknown severity %q", req.Severity)
		return
	}

	actor := auditlog.Actor{ID: req.ActorID, Role: req.ActorRole}
	record := s.audit.Record(r.Context(), req.Action, actor, req.Details, req.Severity)
	s.writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.audit.Stats())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := auditlog.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	data, err := s.audit.Export(format)
	if err != nil {
		s.logger.Error("audit export failed", zap.String("format", string(format)), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := auditlog.ExportFilename(format, s.now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type notificationsResponse struct {
	Unread        int                   `json:"unread"`
	Notifications []notify.Notification `json:"notifications"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	items := s.feed.List()
	if items == nil {
		items = []notify.Notification{}
	}
	s.writeJSON(w, http.StatusOK, notificationsResponse{Unread: s.feed.UnreadCount(), Notifications: items})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.feed.MarkRead(id) {
		s.writeError(w, http.StatusNotFound, "notification %q not found", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
