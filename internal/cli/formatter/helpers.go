package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// HumanDay renders a calendar day heading such as "Mon, Jan 5".
func HumanDay(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// TimeRange renders a start/end instant pair as "07:00–07:40".
func TimeRange(start, end time.Time) string {
	return start.Format("15:04") + "–" + end.Format("15:04")
}

// Swatch renders a colored block in the given color, used as a phase
// legend marker next to calendar entries.
func Swatch(c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render("■")
}
