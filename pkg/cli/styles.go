// Package cli provides shared helpers for the voiceguard command
// line: configuration contexts, request file loading, output
// formatting and report styling.
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for rendered reports.
type Theme struct {
	Primary lipgloss.Color // accent color
	Good    lipgloss.Color // accepted probes
	Bad     lipgloss.Color // rejected or failed probes
	Dim     lipgloss.Color // secondary text
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Good:    lipgloss.Color("#3fb950"),
	Bad:     lipgloss.Color("#f85149"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Dim    lipgloss.Style
	Header lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Good:   lipgloss.NewStyle().Foreground(t.Good),
		Bad:    lipgloss.NewStyle().Foreground(t.Bad),
		Dim:    lipgloss.NewStyle().Foreground(t.Dim),
		Header: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// ReportRow is one line of a rendered result table.
type ReportRow struct {
	Source   string
	Verdict  string // "accept", "reject" or an error note
	Score    string
	Accepted bool
	Failed   bool
}

// RenderTable renders rows under a labeled header.
func (s Styles) RenderTable(label string, rows []ReportRow) string {
	var b strings.Builder
	b.WriteString(s.Label.Render(label) + "\n")
	if len(rows) == 0 {
		b.WriteString(s.Dim.Render("  (none)") + "\n")
		return b.String()
	}

	srcWidth := len("source")
	for _, r := range rows {
		if len(r.Source) > srcWidth {
			srcWidth = len(r.Source)
		}
	}

	b.WriteString("  " + s.Header.Render(fmt.Sprintf("%-*s  %-8s  %s", srcWidth, "source", "verdict", "score")) + "\n")
	for _, r := range rows {
		verdict := r.Verdict
		switch {
		case r.Failed:
			verdict = s.Bad.Render(verdict)
		case r.Accepted:
			verdict = s.Good.Render(verdict)
		default:
			verdict = s.Dim.Render(verdict)
		}
		b.WriteString(fmt.Sprintf("  %-*s  %s  %s\n", srcWidth, r.Source, verdict, r.Score))
	}
	return b.String()
}

// RenderKV renders a labeled key/value block.
func (s Styles) RenderKV(label string, pairs [][2]string) string {
	var b strings.Builder
	b.WriteString(s.Label.Render(label) + "\n")
	keyWidth := 0
	for _, p := range pairs {
		if len(p[0]) > keyWidth {
			keyWidth = len(p[0])
		}
	}
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("  %-*s  %s\n", keyWidth, p[0], p[1]))
	}
	return b.String()
}
