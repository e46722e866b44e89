package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderShare renders a client's share of a total as [████░░░░]  45%.
// Shares outside 0..1 (possible with negative offsets) are clamped for the
// bar but the percentage is printed as computed.
func RenderShare(part, total, width int) string {
	if width < 2 {
		width = 2
	}
	var pct float64
	if total > 0 {
		pct = float64(part) / float64(total)
	}
	clamped := pct
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}

	filled := int(clamped * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", StyleBlue.Render(bar), pct*100)
}
