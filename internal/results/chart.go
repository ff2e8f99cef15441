package results

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1D3557"))
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2F2F2F"))
	fillStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#457B9D"))
	trackStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
)

// Chart renders bars as a terminal chart, each track width cells wide.
func Chart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	if width < 1 {
		width = 1
	}

	var sb strings.Builder
	for _, b := range bars {
		filled := Cells(b.Width, width)
		header := fmt.Sprintf("%d. %s", b.Rank, b.Label)

		sb.WriteString(labelStyle.Render(header))
		sb.WriteString("  ")
		sb.WriteString(percentStyle.Render(b.Percent))
		sb.WriteString("\n")
		sb.WriteString(fillStyle.Render(strings.Repeat("█", filled)))
		sb.WriteString(trackStyle.Render(strings.Repeat("░", width-filled)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Cells converts a percentage width to a number of filled cells out of total.
func Cells(width float64, total int) int {
	n := int(math.Round(width / 100 * float64(total)))
	return max(0, min(n, total))
}
