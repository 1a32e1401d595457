package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/tasks"
)

type formKind int

const (
	formAdd formKind = iota
	formEdit
	formFilter
)

const formFields = 3

// inputForm is the add/edit form and the filter panel: three labelled single-line inputs.
type inputForm struct {
	kind   formKind
	taskID string
	labels [formFields]string
	// fields are the ValidationError field names of the inputs.
	fields [formFields]string
	inputs [formFields]textinput.Model
	focus  int
	hint   string
}

func newInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 200
	in.SetValue(value)
	return in
}

func newTaskForm(kind formKind, t model.Task, categories []string) inputForm {
	f := inputForm{
		kind:   kind,
		taskID: t.ID,
		labels: [formFields]string{"Title", "Category", "Due"},
		fields: [formFields]string{"title", "category", "expiryDate"},
		inputs: [formFields]textinput.Model{
			newInput("What needs doing", t.Title),
			newInput(strings.Join(categories, ", "), t.Category),
			newInput(model.DateLayout, t.ExpiryDate),
		},
		hint: "Categories: " + strings.Join(categories, ", "),
	}
	f.setFocus(0)
	return f
}

func newFilterForm(c tasks.Criteria, categories []string) inputForm {
	f := inputForm{
		kind:   formFilter,
		labels: [formFields]string{"Category", "From", "To"},
		fields: [formFields]string{"category", "startDate", "endDate"},
		inputs: [formFields]textinput.Model{
			newInput(strings.Join(categories, ", "), c.Category),
			newInput(model.DateLayout, c.StartDate),
			newInput(model.DateLayout, c.EndDate),
		},
		hint: "Dates are inclusive; From needs To.",
	}
	f.setFocus(0)
	return f
}

func (f inputForm) title() string {
	switch f.kind {
	case formEdit:
		return "Edit task"
	case formFilter:
		return "Filter tasks"
	default:
		return "New task"
	}
}

func (f *inputForm) setFocus(i int) tea.Cmd {
	f.focus = (i + formFields) % formFields
	for j := range f.inputs {
		if j == f.focus {
			continue
		}
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *inputForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *inputForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// focusField moves focus to the input a validation error names.
func (f *inputForm) focusField(field string) tea.Cmd {
	for i, name := range f.fields {
		if name == field {
			return f.setFocus(i)
		}
	}
	return nil
}

func (f inputForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f *inputForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f inputForm) view(width int) string {
	if width < 24 {
		width = 24
	}
	lines := []string{styleHeader.Render(f.title()), ""}
	for i := range f.inputs {
		label := styleLabel.Render(f.labels[i])
		if i == f.focus {
			label = styleFocused.Render(f.labels[i])
		}
		lines = append(lines, label+renderInputLine(width-lipgloss.Width(label), f.inputs[i].View()))
	}
	lines = append(lines, "", styleMuted.Render(xansi.Truncate(f.hint, width, "…")))
	return strings.Join(lines, "\n")
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// Inputs must stay on one visual line.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
