package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// Colors are adaptive so the list stays readable on light and dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("25", "75")
	colorDone       lipgloss.TerminalColor = ac("28", "78")
	colorOverdue    lipgloss.TerminalColor = ac("160", "203")
	colorInputBg    lipgloss.TerminalColor = ac("254", "236")
)

var (
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleSelected = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	styleDone     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	styleOverdue  = lipgloss.NewStyle().Foreground(colorOverdue)
	styleAlert    = lipgloss.NewStyle().Foreground(colorOverdue).Bold(true)
	styleToast    = lipgloss.NewStyle().Foreground(colorDone).Bold(true)
	styleLabel    = lipgloss.NewStyle().Width(10).Foreground(colorMuted)
	styleFocused  = lipgloss.NewStyle().Width(10).Foreground(colorAccent).Bold(true)
	stylePanel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
)

// applyColorProfilePreference sets Lip Gloss's color profile for the interactive TUI.
//
// termenv.EnvColorProfile also honors CLICOLOR, which can disable colors in a TUI by accident,
// so only NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	if ct := strings.ToLower(os.Getenv("COLORTERM")); (strings.Contains(ct, "truecolor") || strings.Contains(ct, "24bit")) && profile != termenv.Ascii {
		profile = termenv.TrueColor
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) TASKLIST_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKLIST_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
