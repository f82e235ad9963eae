package cleaner

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
		Bold(true)

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}).
		Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"}).
		Width(20)

	warnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"}).
		Bold(true)
)

// Render formats the report for a terminal.
func (r Report) Render() string {
	title := titleStyle.Render("Data cleaning complete")
	if r.DryRun {
		title = warnStyle.Render("Dry run: nothing written")
	}

	line := func(label string, v any) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), fmt.Sprint(v))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		line("Original rows", r.Original),
		line("Cleaned rows", r.Cleaned),
		line("Duplicates removed", r.Duplicates),
		line("Blank rows skipped", r.Blank),
		line("Saved to", r.Output),
	)
	return boxStyle.Render(body)
}
