package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/kvstore"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

var viewer = auditlog.Actor{ID: "0xA11CE", Role: "admin"}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func newTestStore(t *testing.T) (*auditlog.Store, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	return auditlog.NewStore(kvstore.NewMemory(), auditlog.WithClock(clock.now)), clock
}

func seed(t *testing.T, store *auditlog.Store, clock *testClock) {
	t.Helper()
	ctx := context.Background()
	store.Record(ctx, auditlog.ActionUserLogin, auditlog.Actor{ID: "0xB0B", Role: "viewer"}, nil, "")
	clock.t = clock.t.Add(time.Minute)
	store.Record(ctx, auditlog.ActionProductViewed, auditlog.Actor{ID: "0xB0B", Role: "viewer"}, nil, "")
	clock.t = clock.t.Add(time.Minute)
	store.Record(ctx, auditlog.ActionProductAdded, viewer, auditlog.Details{"productName": "Aspirin"}, "")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m auditViewModel, keys ...tea.KeyMsg) auditViewModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(auditViewModel)
	}
	return m
}

func actions(records []auditlog.Record) []auditlog.Action {
	out := make([]auditlog.Action, len(records))
	for i, r := range records {
		out[i] = r.Action
	}
	return out
}

func TestAuditView_LoadsNewestFirst(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)

	m := newAuditViewModel(store, viewer, 90)

	want := []auditlog.Action{auditlog.ActionProductAdded, auditlog.ActionProductViewed, auditlog.ActionUserLogin}
	if diff := cmp.Diff(want, actions(m.filtered)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestAuditView_SeverityCycleFiltersAndRecords(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, runes("f"))

	if m.severity != auditlog.SeverityLow {
		t.Fatalf("expected severity low, got %q", m.severity)
	}
	if diff := cmp.Diff([]auditlog.Action{auditlog.ActionProductViewed}, actions(m.filtered)); diff != "" {
		t.Errorf("unexpected filtered records (-want +got):\n%s", diff)
	}

	latest := store.Query(auditlog.Filter{Limit: 1})
	if len(latest) != 1 || latest[0].Action != auditlog.ActionFilterApplied {
		t.Fatalf("expected FILTER_APPLIED to be recorded, got %+v", latest)
	}
	if got := latest[0].Details["severity"]; got != "low" {
		t.Errorf("expected severity detail low, got %v", got)
	}
}

func TestAuditView_SeverityCycleWrapsToAll(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	for range len(auditlog.Severities) + 1 {
		m = press(t, m, runes("f"))
	}
	if m.severity != "" {
		t.Errorf("expected filter to wrap to all, got %q", m.severity)
	}
	if len(m.filtered) != 3 {
		t.Errorf("expected 3 records with no filter, got %d", len(m.filtered))
	}
}

func TestAuditView_ActionCycle(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, runes("a"))

	if m.action != auditlog.ActionProductAdded {
		t.Fatalf("expected first action filter PRODUCT_ADDED, got %q", m.action)
	}
	if len(m.filtered) != 1 {
		t.Errorf("expected 1 record, got %d", len(m.filtered))
	}
}

func TestAuditView_SortToggle(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, runes("j"), runes("s"))

	want := []auditlog.Action{auditlog.ActionUserLogin, auditlog.ActionProductViewed, auditlog.ActionProductAdded}
	if diff := cmp.Diff(want, actions(m.filtered)); diff != "" {
		t.Errorf("unexpected oldest-first order (-want +got):\n%s", diff)
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor reset to 0, got %d", m.cursor)
	}

	latest := store.Query(auditlog.Filter{Limit: 1})
	if len(latest) != 1 || latest[0].Action != auditlog.ActionSortApplied {
		t.Fatalf("expected SORT_APPLIED to be recorded, got %+v", latest)
	}
	if got := latest[0].Details["sortBy"]; got != "oldest" {
		t.Errorf("expected sortBy detail oldest, got %v", got)
	}

	m = press(t, m, runes("s"))
	if m.filtered[0].Action != auditlog.ActionProductAdded {
		t.Errorf("expected newest first after second toggle, got %s", m.filtered[0].Action)
	}
}

func TestAuditView_ActorSearch(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, runes("/"))
	if !m.searching {
		t.Fatal("expected search mode after /")
	}
	m = press(t, m, runes("b0b"), tea.KeyMsg{Type: tea.KeyEnter})

	if m.searching {
		t.Error("expected search mode to end on enter")
	}
	if m.actorQuery != "b0b" {
		t.Errorf("expected actor query b0b, got %q", m.actorQuery)
	}
	if len(m.filtered) != 2 {
		t.Errorf("expected 2 records for 0xB0B, got %d", len(m.filtered))
	}

	latest := store.Query(auditlog.Filter{Limit: 1})
	if latest[0].Action != auditlog.ActionSearchApplied {
		t.Errorf("expected SEARCH_APPLIED to be recorded, got %s", latest[0].Action)
	}
}

func TestAuditView_SearchEscKeepsPreviousQuery(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)
	before := store.Len()

	m = press(t, m, runes("/"), runes("zzz"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.actorQuery != "" {
		t.Errorf("expected empty query after esc, got %q", m.actorQuery)
	}
	if len(m.filtered) != 3 {
		t.Errorf("expected all records, got %d", len(m.filtered))
	}
	if store.Len() != before {
		t.Errorf("expected nothing recorded on cancel")
	}
}

func TestAuditView_PurgeRequiresConfirmation(t *testing.T) {
	store, clock := newTestStore(t)
	store.Record(context.Background(), auditlog.ActionUserLogin, viewer, nil, "")
	clock.t = clock.t.Add(100 * 24 * time.Hour)
	store.Record(context.Background(), auditlog.ActionUserLogout, viewer, nil, "")
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, runes("p"), runes("n"))
	if store.Len() != 2 {
		t.Fatalf("expected no purge on n, got %d records", store.Len())
	}

	m = press(t, m, runes("p"), runes("y"))
	if store.Len() != 1 {
		t.Fatalf("expected 1 record after purge, got %d", store.Len())
	}
	if !strings.Contains(m.status, "Purged 1 records older than 90 days") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestAuditView_UpdateMessageRefreshes(t *testing.T) {
	store, clock := newTestStore(t)
	m := newAuditViewModel(store, viewer, 90)
	unsubscribe := store.Subscribe(m.publish)
	defer unsubscribe()

	seed(t, store, clock)

	msg := waitForAuditUpdate(m.updates)()
	next, cmd := m.Update(msg)
	m = next.(auditViewModel)

	if len(m.records) != 3 {
		t.Errorf("expected latest snapshot of 3 records, got %d", len(m.records))
	}
	if cmd == nil {
		t.Error("expected the model to keep listening for updates")
	}
}

func TestAuditView_PublishKeepsOnlyLatest(t *testing.T) {
	store, _ := newTestStore(t)
	m := newAuditViewModel(store, viewer, 90)

	m.publish([]auditlog.Record{{ID: "1"}})
	m.publish([]auditlog.Record{{ID: "1"}, {ID: "2"}})

	got := <-m.updates
	if len(got) != 2 {
		t.Errorf("expected newest snapshot, got %d records", len(got))
	}
}

func TestAuditView_DetailToggle(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatal("expected detail pane on enter")
	}
	if view := m.View(); !strings.Contains(view, "Aspirin") {
		t.Error("expected detail pane to show record details")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showDetail {
		t.Error("expected esc to close the detail pane")
	}
}

func TestAuditView_EmptyStates(t *testing.T) {
	store, _ := newTestStore(t)
	m := newAuditViewModel(store, viewer, 90)
	if view := m.View(); !strings.Contains(view, "The audit log is empty.") {
		t.Errorf("expected empty log message")
	}

	seeded, clock := newTestStore(t)
	seed(t, seeded, clock)
	m = newAuditViewModel(seeded, viewer, 90)
	m.actorQuery = "nobody"
	m.applyFilter()
	if view := m.View(); !strings.Contains(view, "No records match current filter.") {
		t.Errorf("expected no match message")
	}
}

func TestAuditView_CursorClamps(t *testing.T) {
	store, clock := newTestStore(t)
	seed(t, store, clock)
	m := newAuditViewModel(store, viewer, 90)

	m = press(t, m, runes("j"), runes("j"), runes("j"), runes("j"))
	if m.cursor != 2 {
		t.Errorf("expected cursor at last row, got %d", m.cursor)
	}
	m = press(t, m, runes("a"))
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0 after filtering, got %d", m.cursor)
	}
}

func TestNext(t *testing.T) {
	opts := []string{"", "a", "b"}
	tests := map[string]string{"": "a", "a": "b", "b": "", "missing": ""}
	for cur, want := range tests {
		if got := next(opts, cur); got != want {
			t.Errorf("next(%q) = %q, want %q", cur, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"0x1234567890abcdef", 10, "0x12345..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
