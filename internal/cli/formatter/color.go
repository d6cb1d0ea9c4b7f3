package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Dark values are gruvbox; light values keep contrast on pale
// backgrounds.
var (
	ColorGreen  = lipgloss.AdaptiveColor{Light: "#427b58", Dark: "#8ec07c"}
	ColorYellow = lipgloss.AdaptiveColor{Light: "#b57614", Dark: "#fabd2f"}
	ColorRed    = lipgloss.AdaptiveColor{Light: "#9d0006", Dark: "#fb4934"}
	ColorBlue   = lipgloss.AdaptiveColor{Light: "#076678", Dark: "#83a598"}
	ColorPurple = lipgloss.AdaptiveColor{Light: "#8f3f71", Dark: "#d3869b"}
	ColorDim    = lipgloss.AdaptiveColor{Light: "#7c6f64", Dark: "#928374"}
	ColorFg     = lipgloss.AdaptiveColor{Light: "#3c3836", Dark: "#ebdbb2"}
	ColorHeader = lipgloss.AdaptiveColor{Light: "#af3a03", Dark: "#fe8019"}
)

func fgStyle(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	StyleGreen      = fgStyle(ColorGreen)
	StyleYellow     = fgStyle(ColorYellow)
	StyleYellowBold = fgStyle(ColorYellow).Bold(true)
	StyleRed        = fgStyle(ColorRed)
	StyleBlue       = fgStyle(ColorBlue)
	StylePurple     = fgStyle(ColorPurple)
	StyleDim        = fgStyle(ColorDim)
	StyleFg         = fgStyle(ColorFg)
	StyleHeader     = fgStyle(ColorHeader).Bold(true)
	StyleBold       = fgStyle(ColorFg).Bold(true)
)

// FundedBadge marks IDEA grant funded positions.
func FundedBadge(funded bool) string {
	if funded {
		return StylePurple.Render("◆ IDEA")
	}
	return ""
}

// ModeBadge renders the editor's drop mode.
func ModeBadge(mode string) string {
	if strings.EqualFold(mode, "move") {
		return StyleYellow.Render("↳ MOVE")
	}
	return StyleBlue.Render("⇄ SWAP")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
