package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tasklist-cli/internal/model"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style + wrap width. WithAutoStyle can block on terminal
	// background queries, so a fixed standard style is picked instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// taskMarkdown is the detail pane body for t.
func taskMarkdown(t model.Task, now time.Time) string {
	status := "open"
	if t.Completed {
		status = "completed"
	}
	notified := "no"
	if t.Notified {
		notified = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", t.Title)
	fmt.Fprintf(&b, "- **Category:** %s\n", t.Category)
	fmt.Fprintf(&b, "- **Due:** %s (%s)\n", t.ExpiryDate, dueLabel(t, now))
	fmt.Fprintf(&b, "- **Status:** %s\n", status)
	fmt.Fprintf(&b, "- **Notified:** %s\n", notified)
	fmt.Fprintf(&b, "\n`%s`\n", t.ID)
	return b.String()
}

func dueLabel(t model.Task, now time.Time) string {
	d, ok := t.Expiry()
	if !ok {
		return "invalid date"
	}
	days := int(math.Round(d.Sub(model.StartOfDay(now)).Hours() / 24))
	switch {
	case days < 0:
		return fmt.Sprintf("overdue by %d day(s)", -days)
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
