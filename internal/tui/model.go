package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/notify"
	"tasklist-cli/internal/tasks"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
)

const toastTTL = 5 * time.Second

type notificationMsg notify.Notification

type toastExpiredMsg struct{ seq int }

type appModel struct {
	ctx   context.Context
	store *tasks.Store
	now   func() time.Time
	keys  keyMap

	width  int
	height int
	mode   mode

	criteria tasks.Criteria
	visible  []model.Task
	total    int
	cursor   int

	search textinput.Model
	form   inputForm

	alert    string
	toast    string
	toastSeq int
}

func newAppModel(ctx context.Context, st *tasks.Store, now func() time.Time) appModel {
	if now == nil {
		now = time.Now
	}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = fmt.Sprintf("search titles (%d+ characters)", tasks.MinSearchLength)
	search.CharLimit = 100

	m := appModel{
		ctx:    ctx,
		store:  st,
		now:    now,
		keys:   defaultKeyMap(),
		search: search,
	}
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// refresh recomputes the visible view from the store and keeps the cursor in range.
func (m *appModel) refresh() {
	m.visible = m.store.Visible(m.criteria)
	m.total = len(m.store.Tasks())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return model.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *appModel) selectID(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *appModel) showToast(s string) tea.Cmd {
	m.toast = s
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

// fail shows err on the alert line and focuses the offending form input, if any.
func (m *appModel) fail(err error) tea.Cmd {
	m.alert = err.Error()
	var ve *tasks.ValidationError
	if errors.As(err, &ve) && m.mode == modeForm {
		return m.form.focusField(ve.Field)
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case notificationMsg:
		m.refresh()
		return m, m.showToast(fmt.Sprintf("Task due: %s (%s)", msg.Title, msg.ExpiryDate))

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.alert = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Add):
		today := model.StartOfDay(m.now()).Format(model.DateLayout)
		m.form = newTaskForm(formAdd, model.Task{ExpiryDate: today}, m.store.Categories())
		m.mode = modeForm
	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			m.form = newTaskForm(formEdit, t, m.store.Categories())
			m.mode = modeForm
		}
	case key.Matches(msg, m.keys.Filter):
		m.form = newFilterForm(m.criteria, m.store.Categories())
		m.mode = modeForm
	case key.Matches(msg, m.keys.Clear):
		m.criteria = tasks.Criteria{}
		m.search.SetValue("")
		m.refresh()
		return m, m.showToast("Filters cleared")
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		updated, err := m.store.ToggleCompletion(m.ctx, t.ID)
		if err != nil {
			return m, m.fail(err)
		}
		m.refresh()
		if updated.Completed {
			return m, m.showToast("Marked done: " + updated.Title)
		}
		return m, m.showToast("Marked open: " + updated.Title)
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.store.Delete(m.ctx, t.ID); err != nil {
			return m, m.fail(err)
		}
		m.refresh()
		return m, m.showToast("Deleted: " + t.Title)
	}
	return m, nil
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.criteria.SearchTerm = ""
		m.mode = modeList
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.criteria.SearchTerm = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.alert = ""
		m.mode = modeList
		return m, nil
	case key.Matches(msg, m.keys.Next):
		return m, m.form.next()
	case key.Matches(msg, m.keys.Prev):
		return m, m.form.prev()
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	switch f.kind {
	case formFilter:
		c, err := m.store.NewCriteria(m.criteria.SearchTerm, f.value(0), f.value(1), f.value(2))
		if err != nil {
			return m, m.fail(err)
		}
		if !c.HasFilters() {
			m.alert = "please select at least one filter"
			return m, nil
		}
		m.criteria = c
		m.alert = ""
		m.mode = modeList
		m.cursor = 0
		m.refresh()
		return m, nil

	case formEdit:
		t, err := m.store.Edit(m.ctx, f.taskID, f.value(0), f.value(1), f.value(2))
		if err != nil {
			return m, m.fail(err)
		}
		m.alert = ""
		m.mode = modeList
		m.refresh()
		m.selectID(t.ID)
		return m, m.showToast("Saved: " + t.Title)

	default:
		t, err := m.store.Create(m.ctx, f.value(0), f.value(1), f.value(2))
		if err != nil {
			return m, m.fail(err)
		}
		// A new task is always shown: adding clears the search and filters.
		m.criteria = tasks.Criteria{}
		m.search.SetValue("")
		m.alert = ""
		m.mode = modeList
		m.refresh()
		m.selectID(t.ID)
		return m, m.showToast("Task added: " + t.Title)
	}
}

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	now := m.now()

	var b strings.Builder
	header := styleHeader.Render(fmt.Sprintf("Tasks %d of %d", len(m.visible), m.total))
	if s := criteriaSummary(m.criteria); s != "" {
		header += styleMuted.Render("  " + s)
	}
	b.WriteString(header + "\n")
	if m.mode == modeSearch || m.criteria.SearchTerm != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString("\n")

	if m.mode == modeForm {
		b.WriteString(stylePanel.Render(m.form.view(width-4)) + "\n")
	} else {
		b.WriteString(m.listView(width, now))
		if t, ok := m.selected(); ok {
			b.WriteString("\n" + renderMarkdown(taskMarkdown(t, now), width) + "\n")
		}
	}

	b.WriteString("\n")
	if m.alert != "" {
		b.WriteString(styleAlert.Render("! "+m.alert) + "\n")
	}
	if m.toast != "" {
		b.WriteString(styleToast.Render(m.toast) + "\n")
	}
	if m.mode == modeForm {
		b.WriteString(styleMuted.Render(m.keys.formHelp()))
	} else {
		b.WriteString(styleMuted.Render(m.keys.listHelp()))
	}
	return b.String()
}

func (m appModel) listView(width int, now time.Time) string {
	if len(m.visible) == 0 {
		if m.total == 0 {
			return styleMuted.Render("No tasks yet. Press a to add one.") + "\n"
		}
		return styleMuted.Render("No tasks match the current filters.") + "\n"
	}

	rows := len(m.visible)
	if m.height > 0 {
		// Leave room for the header, the detail pane and the status lines.
		if limit := m.height - 16; limit < rows {
			rows = max(limit, 3)
		}
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.visible))

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderTaskRow(m.visible[i], width, i == m.cursor, now) + "\n")
	}
	if end < len(m.visible) {
		b.WriteString(styleMuted.Render(fmt.Sprintf("… %d more", len(m.visible)-end)) + "\n")
	}
	return b.String()
}

func criteriaSummary(c tasks.Criteria) string {
	var parts []string
	if c.Category != "" {
		parts = append(parts, "category "+c.Category)
	}
	if c.StartDate != "" && c.EndDate != "" {
		parts = append(parts, c.StartDate+" .. "+c.EndDate)
	}
	return strings.Join(parts, " · ")
}
