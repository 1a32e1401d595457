package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	log "github.com/sirupsen/logrus"

	"tasklist-cli/internal/notify"
	"tasklist-cli/internal/store"
	"tasklist-cli/internal/tasks"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 30, 0, 0, time.Local)
}

func newTestModel(t *testing.T) (appModel, *tasks.Store) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	quiet := log.New()
	quiet.SetLevel(log.PanicLevel)
	st := tasks.New(store.NewMemoryKV(), tasks.WithClock(fixedNow), tasks.WithLogger(quiet))
	st.Load(context.Background())
	return newAppModel(context.Background(), st, fixedNow), st
}

func mustCreate(t *testing.T, st *tasks.Store, title, category, due string) {
	t.Helper()
	if _, err := st.Create(context.Background(), title, category, due); err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m appModel, msgs ...tea.Msg) appModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(appModel)
	}
	return m
}

func typeText(m appModel, s string) appModel {
	for _, r := range s {
		if r == ' ' {
			m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m = press(m, runeKey(string(r)))
	}
	return m
}

func TestAddForm_CreatesTaskAtTop(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Older", "Work", "2025-06-20")
	m.refresh()

	m = press(m, runeKey("a"))
	if m.mode != modeForm || m.form.kind != formAdd {
		t.Fatalf("expected add form, got mode=%v kind=%v", m.mode, m.form.kind)
	}
	if got := m.form.value(2); got != "2025-06-15" {
		t.Fatalf("due should default to today; got %q", got)
	}

	m = typeText(m, "Buy milk")
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "Shopping")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeList {
		t.Fatalf("expected list mode after save; alert=%q", m.alert)
	}
	all := st.Tasks()
	if len(all) != 2 || all[0].Title != "Buy milk" || all[0].Category != "Shopping" {
		t.Fatalf("unexpected tasks: %#v", all)
	}
	if m.cursor != 0 || !strings.Contains(m.toast, "Buy milk") {
		t.Fatalf("cursor=%d toast=%q", m.cursor, m.toast)
	}
}

func TestAddForm_ValidationErrorKeepsFormOpen(t *testing.T) {
	m, st := newTestModel(t)

	m = press(m, runeKey("a"))
	m = typeText(m, "Task")
	m = press(m, runeKey("!"))
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "Work")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeForm {
		t.Fatalf("form should stay open on validation error")
	}
	if !strings.Contains(m.alert, "invalid title") {
		t.Fatalf("alert = %q", m.alert)
	}
	if m.form.focus != 0 {
		t.Fatalf("expected focus on title, got %d", m.form.focus)
	}
	if len(st.Tasks()) != 0 {
		t.Fatalf("no task should be created")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList || m.alert != "" {
		t.Fatalf("esc should close the form and clear the alert")
	}
}

func TestAddForm_ClearsSearchAndFilters(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Report", "Work", "2025-06-20")
	m.refresh()

	m = press(m, runeKey("/"))
	m = typeText(m, "rep")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}, runeKey("f"))
	m = typeText(m, "Work")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.criteria.Category != "Work" || m.criteria.SearchTerm != "rep" {
		t.Fatalf("setup: criteria = %#v", m.criteria)
	}

	m = press(m, runeKey("a"))
	m = typeText(m, "Buy milk")
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "Shopping")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeList {
		t.Fatalf("alert=%q", m.alert)
	}
	if !m.criteria.IsEmpty() || m.search.Value() != "" {
		t.Fatalf("criteria should be cleared, got %#v search=%q", m.criteria, m.search.Value())
	}
	if len(m.visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(m.visible))
	}
	if sel, ok := m.selected(); !ok || sel.Title != "Buy milk" {
		t.Fatalf("selected = %#v", sel)
	}
}

func TestFilterPanel_CategoryCaseAndUnknown(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Report", "work", "2025-06-20")
	mustCreate(t, st, "Dishes", "Home", "2025-06-20")
	m.refresh()

	m = press(m, runeKey("f"))
	m = typeText(m, "Errands")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeForm || !strings.Contains(m.alert, "invalid category") {
		t.Fatalf("expected unknown category alert, mode=%v alert=%q", m.mode, m.alert)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc}, runeKey("f"))
	m = typeText(m, "work")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList || m.criteria.Category != "Work" {
		t.Fatalf("mode=%v criteria=%#v alert=%q", m.mode, m.criteria, m.alert)
	}
	if len(m.visible) != 1 || m.visible[0].Title != "Report" {
		t.Fatalf("unexpected visible: %#v", m.visible)
	}
}

func TestEditForm_PrefillsAndSaves(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Walk dog", "Home", "2025-06-20")
	m.refresh()

	m = press(m, runeKey("e"))
	if m.mode != modeForm || m.form.kind != formEdit {
		t.Fatalf("expected edit form")
	}
	if m.form.value(0) != "Walk dog" || m.form.value(1) != "Home" || m.form.value(2) != "2025-06-20" {
		t.Fatalf("form not prefilled: %q %q %q", m.form.value(0), m.form.value(1), m.form.value(2))
	}

	m = typeText(m, " twice")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList {
		t.Fatalf("alert=%q", m.alert)
	}
	if got := st.Tasks()[0].Title; got != "Walk dog twice" {
		t.Fatalf("title = %q", got)
	}
}

func TestSearch_RequiresTwoCharacters(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Walk dog", "Home", "2025-06-20")
	mustCreate(t, st, "Buy milk", "Shopping", "2025-06-21")
	m.refresh()

	m = press(m, runeKey("/"))
	if m.mode != modeSearch {
		t.Fatalf("expected search mode")
	}
	m = typeText(m, "m")
	if len(m.visible) != 2 {
		t.Fatalf("one character should not filter; visible=%d", len(m.visible))
	}
	m = typeText(m, "i")
	if len(m.visible) != 1 || m.visible[0].Title != "Buy milk" {
		t.Fatalf("unexpected visible: %#v", m.visible)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList || m.criteria.SearchTerm != "mi" {
		t.Fatalf("enter should keep the search term; mode=%v term=%q", m.mode, m.criteria.SearchTerm)
	}

	m = press(m, runeKey("c"))
	if !m.criteria.IsEmpty() || len(m.visible) != 2 || m.search.Value() != "" {
		t.Fatalf("clear should reset criteria; got %#v", m.criteria)
	}
}

func TestFilterPanel(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Report", "Work", "2025-06-20")
	mustCreate(t, st, "Dishes", "Home", "2025-07-20")
	m.refresh()

	m = press(m, runeKey("f"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.alert != "please select at least one filter" || m.mode != modeForm {
		t.Fatalf("alert = %q mode=%v", m.alert, m.mode)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(m, "2025-06-01")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.alert, "please select an end date") {
		t.Fatalf("alert = %q", m.alert)
	}
	if m.form.focus != 2 {
		t.Fatalf("expected focus on the end date, got %d", m.form.focus)
	}

	m = typeText(m, "2025-06-30")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList {
		t.Fatalf("alert = %q", m.alert)
	}
	if len(m.visible) != 1 || m.visible[0].Title != "Report" {
		t.Fatalf("unexpected visible: %#v", m.visible)
	}
	if !strings.Contains(m.View(), "2025-06-01 .. 2025-06-30") {
		t.Fatalf("header should summarize the range")
	}

	m = press(m, runeKey("f"))
	m = typeText(m, "Home")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.visible) != 0 {
		t.Fatalf("category and range should both apply; visible=%#v", m.visible)
	}
	if !strings.Contains(m.View(), "No tasks match the current filters.") {
		t.Fatalf("expected empty-filter message")
	}
}

func TestToggleAndDelete(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "First", "Work", "2025-06-20")
	mustCreate(t, st, "Second", "Work", "2025-06-21")
	m.refresh()

	m = press(m, runeKey("j"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := st.Tasks()[1]; got.Title != "First" || !got.Completed {
		t.Fatalf("expected First completed, got %#v", got)
	}
	m = press(m, runeKey("x"))
	if st.Tasks()[1].Completed {
		t.Fatalf("second toggle should restore")
	}

	m = press(m, runeKey("d"))
	all := st.Tasks()
	if len(all) != 1 || all[0].Title != "Second" {
		t.Fatalf("unexpected tasks after delete: %#v", all)
	}
	if m.cursor != 0 {
		t.Fatalf("cursor should clamp, got %d", m.cursor)
	}
}

func TestNotificationShowsToast(t *testing.T) {
	m, st := newTestModel(t)
	mustCreate(t, st, "Pay rent", "Home", "2025-06-15")
	m.refresh()

	next, cmd := m.Update(notificationMsg(notify.Notification{Title: "Pay rent", ExpiryDate: "2025-06-15"}))
	m = next.(appModel)
	if cmd == nil {
		t.Fatalf("expected a toast expiry command")
	}
	if !strings.Contains(m.View(), "Task due: Pay rent (2025-06-15)") {
		t.Fatalf("toast missing from view:\n%s", m.View())
	}

	m = press(m, toastExpiredMsg{seq: m.toastSeq - 1})
	if m.toast == "" {
		t.Fatalf("stale expiry should not clear the toast")
	}
	m = press(m, toastExpiredMsg{seq: m.toastSeq})
	if m.toast != "" {
		t.Fatalf("toast should clear")
	}
}

func TestView_ListAndDetail(t *testing.T) {
	m, st := newTestModel(t)
	m = press(m, tea.WindowSizeMsg{Width: 60, Height: 40})
	if !strings.Contains(m.View(), "No tasks yet") {
		t.Fatalf("expected empty state")
	}

	mustCreate(t, st, "Buy milk", "Shopping", "2025-06-16")
	m.refresh()
	v := m.View()
	for _, want := range []string{"Tasks 1 of 1", "[ ] Buy milk", "Shopping", "Notified", "tomorrow"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	m = press(m, runeKey("/"))
	next, _ := m.Update(runeKey("q"))
	if got := next.(appModel).search.Value(); got != "q" {
		t.Fatalf("q should type into the search box, got %q", got)
	}
}
