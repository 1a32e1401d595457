package tui

import (
	"fmt"
	"strings"
	"time"

	xansi "github.com/charmbracelet/x/ansi"

	"tasklist-cli/internal/model"
)

const (
	categoryColW = 10
	dateColW     = 10
)

// renderTaskRow renders one list line, padded or cut to exactly width cells.
func renderTaskRow(t model.Task, width int, selected bool, now time.Time) string {
	if width < 20 {
		width = 20
	}

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	titleW := width - len(check) - categoryColW - dateColW - 4
	if titleW < 4 {
		titleW = 4
	}
	title := padRight(xansi.Truncate(t.Title, titleW, "…"), titleW)
	category := padRight(xansi.Truncate(t.Category, categoryColW, "…"), categoryColW)
	line := fmt.Sprintf("%s %s %s %s", check, title, category, t.ExpiryDate)
	line = padRight(xansi.Truncate(line, width, ""), width)

	switch {
	case selected:
		return styleSelected.Render(line)
	case t.Completed:
		return styleDone.Render(line)
	case t.IsDue(now):
		return styleOverdue.Render(line)
	default:
		return line
	}
}

func padRight(s string, width int) string {
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
