package formatter

import (
	"fmt"
	"math"
	"strings"
)

// RenderShare draws pct (0..1) as a bar of width cells followed by the
// rounded percentage, for example [██░░] 50%.
func RenderShare(pct float64, width int) string {
	pct = math.Max(0, math.Min(1, pct))
	width = max(width, 2)

	on := int(math.Floor(pct * float64(width)))
	bar := StylePurple.Render(strings.Repeat("█", on)) +
		Dim(strings.Repeat("░", width-on))
	return fmt.Sprintf("[%s] %.0f%%", bar, math.Round(pct*100))
}
