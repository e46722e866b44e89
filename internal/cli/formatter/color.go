package formatter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/timbertrack/timber/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatePill marks a session as running or finished.
func StatePill(active bool) string {
	if active {
		return StyleGreen.Render("● running")
	}
	return StyleDim.Render("✔ ended")
}

// Minutes renders a signed minute total as "1h 45m". Negative totals are
// shown in red so a runaway offset stands out.
func Minutes(total int) string {
	text := domain.FormatHM(total)
	if total < 0 {
		return StyleRed.Render(text)
	}
	return StyleFg.Render(text)
}

// Offset renders a manual adjustment as "+15m" / "-5m", or "" when zero.
func Offset(minutes int) string {
	switch {
	case minutes > 0:
		return StyleYellow.Render(fmt.Sprintf("+%dm", minutes))
	case minutes < 0:
		return StyleYellow.Render(fmt.Sprintf("%dm", minutes))
	default:
		return ""
	}
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
