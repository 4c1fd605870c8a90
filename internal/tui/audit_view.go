package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"pharmacertlabs/pharmacert/internal/auditlog"
	"pharmacertlabs/pharmacert/internal/tui/components"
	"pharmacertlabs/pharmacert/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// --- Messages ---

type auditUpdatedMsg struct {
	records []auditlog.Record
}

// --- Audit viewer model ---

type auditViewModel struct {
	store         *auditlog.Store
	actor         auditlog.Actor
	retentionDays int
	updates       chan []auditlog.Record

	records   []auditlog.Record
	filtered  []auditlog.Record
	cursor    int
	listStart int

	severity   auditlog.Severity
	severities []auditlog.Severity
	action     auditlog.Action
	actions    []auditlog.Action

	search     textinput.Model
	searching  bool
	actorQuery string

	oldestFirst  bool
	showDetail   bool
	confirmPurge bool

	width  int
	height int

	status      string
	statusLevel components.Level
}

func newAuditViewModel(store *auditlog.Store, actor auditlog.Actor, retentionDays int) auditViewModel {
	ti := textinput.New()
	ti.Placeholder = "actor address"
	ti.Prompt = "/ "
	ti.CharLimit = 66

	m := auditViewModel{
		store:         store,
		actor:         actor,
		retentionDays: retentionDays,
		updates:       make(chan []auditlog.Record, 1),
		severities:    append([]auditlog.Severity{""}, auditlog.Severities...),
		actions:       append([]auditlog.Action{""}, auditlog.Actions...),
		search:        ti,
		width:         100,
		height:        30,
	}
	m.records = store.Query(auditlog.Filter{})
	m.applyFilter()
	m.status = fmt.Sprintf("%d of %d records (cap %d).", len(m.records), len(m.records), store.MaxRecords())
	return m
}

// publish hands the latest snapshot to the model without blocking the
// recorder. A pending snapshot is replaced since only the newest matters.
func (m auditViewModel) publish(records []auditlog.Record) {
	for {
		select {
		case m.updates <- records:
			return
		default:
		}
		select {
		case <-m.updates:
		default:
		}
	}
}

func waitForAuditUpdate(ch <-chan []auditlog.Record) tea.Cmd {
	return func() tea.Msg {
		records, ok := <-ch
		if !ok {
			return nil
		}
		return auditUpdatedMsg{records: records}
	}
}

func (m auditViewModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForAuditUpdate(m.updates))
}

func (m *auditViewModel) filter() auditlog.Filter {
	return auditlog.Filter{Severity: m.severity, Action: m.action}
}

func (m *auditViewModel) applyFilter() {
	f := m.filter()
	query := strings.ToLower(m.actorQuery)
	m.filtered = make([]auditlog.Record, 0, len(m.records))
	for _, r := range m.records {
		if !f.Matches(r) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.ActorID), query) {
			continue
		}
		m.filtered = append(m.filtered, r)
	}
	if m.oldestFirst {
		slices.Reverse(m.filtered)
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	if m.listStart >= len(m.filtered) {
		m.listStart = 0
	}
	if len(m.filtered) == 0 {
		m.showDetail = false
	}
}

func (m *auditViewModel) setStatus(level components.Level, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusLevel = level
}

func (m auditViewModel) selected() (auditlog.Record, bool) {
	if len(m.filtered) == 0 {
		return auditlog.Record{}, false
	}
	return m.filtered[m.cursor], true
}

func (m auditViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case auditUpdatedMsg:
		m.records = msg.records
		m.applyFilter()
		return m, waitForAuditUpdate(m.updates)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.confirmPurge {
			return m.updatePurgeConfirm(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m auditViewModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.actorQuery)
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.actorQuery = strings.TrimSpace(m.search.Value())
		m.applyFilter()
		if m.actorQuery != "" {
			m.store.SearchApplied(context.Background(), m.actor, m.actorQuery, len(m.filtered))
			m.setStatus(components.Info, "%d records match actor %q.", len(m.filtered), m.actorQuery)
		} else {
			m.setStatus(components.Info, "Actor search cleared.")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m auditViewModel) updatePurgeConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmPurge = false
	if msg.String() != "y" {
		m.setStatus(components.Info, "Purge cancelled.")
		return m, nil
	}
	removed := m.store.PurgeOlderThan(m.retentionDays)
	m.setStatus(components.Success, "Purged %d records older than %d days.", removed, m.retentionDays)
	return m, nil
}

func (m auditViewModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.showDetail {
			m.showDetail = false
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(m.filtered)-1, 0)
	case "f":
		m.severity = next(m.severities, m.severity)
		m.filterChanged()
	case "a":
		m.action = next(m.actions, m.action)
		m.filterChanged()
	case "/":
		m.searching = true
		m.search.SetValue(m.actorQuery)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "s":
		m.oldestFirst = !m.oldestFirst
		m.applyFilter()
		m.cursor = 0
		m.store.SortApplied(context.Background(), m.actor, m.sortOrder())
		m.setStatus(components.Info, "Sorted %s first.", m.sortOrder())
	case "enter":
		if _, ok := m.selected(); ok {
			m.showDetail = !m.showDetail
		}
	case "p":
		m.confirmPurge = true
		m.setStatus(components.Warning, "Purge records older than %d days? (y/n)", m.retentionDays)
	}
	return m, nil
}

func (m *auditViewModel) filterChanged() {
	m.applyFilter()
	m.store.FilterApplied(context.Background(), m.actor, map[string]string{
		"severity": string(m.severity),
		"action":   string(m.action),
	})
	m.setStatus(components.Info, "%d of %d records.", len(m.filtered), len(m.records))
}

func (m auditViewModel) sortOrder() string {
	if m.oldestFirst {
		return "oldest"
	}
	return "newest"
}

// next returns the element after cur in options, wrapping around.
func next[T comparable](options []T, cur T) T {
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func (m auditViewModel) View() string {
	header := components.Header(m.width, "audit", m.actor.ID)

	bindings := []components.KeyBinding{
		{Key: "j/k", Desc: "nav"},
		{Key: "enter", Desc: "detail"},
		{Key: "f", Desc: "severity"},
		{Key: "a", Desc: "action"},
		{Key: "/", Desc: "actor"},
		{Key: "s", Desc: "sort"},
		{Key: "p", Desc: "purge"},
		{Key: "q", Desc: "quit"},
	}
	if m.searching {
		bindings = []components.KeyBinding{
			{Key: "enter", Desc: "apply"},
			{Key: "esc", Desc: "cancel"},
		}
	}
	footer := components.Footer(m.width, bindings)
	statusBar := components.StatusBar(m.width, m.status, m.statusLevel)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(statusBar), 1)

	var content string
	if len(m.records) == 0 {
		content = "\n  The audit log is empty."
	} else {
		top := m.renderFilterBar()
		if m.searching {
			top += "\n" + styles.Search.Render(m.search.View())
		}
		tableH := contentH - lipgloss.Height(top)
		var detail string
		if r, ok := m.selected(); ok && m.showDetail {
			detail = renderDetail(r)
			tableH -= lipgloss.Height(detail)
		}
		content = top + "\n" + m.renderTable(max(tableH, 2))
		if detail != "" {
			content += "\n" + detail
		}
	}

	if lines := lipgloss.Height(content); lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m auditViewModel) renderFilterBar() string {
	sev := "All"
	if m.severity != "" {
		sev = styles.SeverityStyle(string(m.severity)).Render(string(m.severity))
	}
	act := "All"
	if m.action != "" {
		act = styles.AccentText.Render(string(m.action))
	}
	line := fmt.Sprintf("  Severity: [%s]  Action: [%s]", sev, act)
	if m.actorQuery != "" {
		line += fmt.Sprintf("  Actor: [%s]", styles.AccentText.Render(m.actorQuery))
	}
	return line
}

func (m *auditViewModel) renderTable(height int) string {
	if len(m.filtered) == 0 {
		return "\n  No records match current filter."
	}

	cols := []int{19, 20, 20, 10, 10}

	header := styles.TableHeader.Render(
		fmt.Sprintf("  %-*s %-*s %-*s %-*s %-*s",
			cols[0], "TIME",
			cols[1], "ACTION",
			cols[2], "ACTOR",
			cols[3], "ROLE",
			cols[4], "SEVERITY",
		),
	)

	rows := []string{header}

	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+(height-1) {
		m.listStart = m.cursor - (height - 2)
	}
	end := min(m.listStart+height-1, len(m.filtered))

	for i := m.listStart; i < end; i++ {
		r := m.filtered[i]

		cursor := " "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}

		row := fmt.Sprintf("%s %-*s %-*s %-*s %-*s %s",
			cursor,
			cols[0], r.Time().Local().Format("2006-01-02 15:04:05"),
			cols[1], r.Action,
			cols[2], truncate(r.ActorID, cols[2]),
			cols[3], truncate(r.ActorRole, cols[3]),
			styles.SeverityIndicator(string(r.Severity)),
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderDetail(r auditlog.Record) string {
	details := "{}"
	if len(r.Details) > 0 {
		if b, err := json.MarshalIndent(r.Details, "", "  "); err == nil {
			details = string(b)
		}
	}

	field := func(label, value string) string {
		return styles.Label.Render(fmt.Sprintf("%-10s", label)) + " " + styles.Value.Render(value)
	}

	lines := []string{
		field("ID", r.ID),
		field("Date", r.Time().UTC().Format(time.RFC3339)),
		field("Action", string(r.Action)),
		field("Actor", r.ActorID),
		field("Role", r.ActorRole),
		field("Severity", styles.SeverityIndicator(string(r.Severity))),
	}
	if r.IPAddress != "" {
		lines = append(lines, field("IP", r.IPAddress))
	}
	if r.UserAgent != "" {
		lines = append(lines, field("Agent", r.UserAgent))
	}
	lines = append(lines, styles.Label.Render("Details"), styles.MutedText.Render(details))

	return styles.Detail.Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if ansi.StringWidth(s) <= n {
		return s
	}
	if n <= 3 {
		return ansi.Truncate(s, n, "")
	}
	return ansi.Truncate(s, n, "...")
}

// RunAuditViewer opens the interactive audit log browser. The view follows
// the store live until the user quits.
func RunAuditViewer(store *auditlog.Store, actor auditlog.Actor, retentionDays int) error {
	m := newAuditViewModel(store, actor, retentionDays)
	unsubscribe := store.Subscribe(m.publish)
	defer unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
