package cli

import (
	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const replaceWarning = "The current organization will be removed from the store."

// confirmTheme styles prompts with the chart palette: orange titles and a
// highlighted affirmative button. Blurred fields drop the left border.
func confirmTheme() *huh.Theme {
	t := huh.ThemeBase()

	fg := lipgloss.NewStyle().Foreground
	t.Focused.Base = t.Focused.Base.BorderForeground(formatter.ColorHeader)
	t.Focused.Title = fg(formatter.ColorHeader).Bold(true)
	t.Focused.Description = fg(formatter.ColorDim)
	t.Focused.ErrorMessage = fg(formatter.ColorRed)
	t.Focused.FocusedButton = fg(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 2)
	t.Focused.BlurredButton = fg(formatter.ColorDim).Padding(0, 2)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = fg(formatter.ColorDim)
	return t
}

// wizardConfirm asks before the stored organization is replaced.
func wizardConfirm(title string, result *bool) *huh.Form {
	field := huh.NewConfirm().
		Title(title).
		Description(replaceWarning).
		Affirmative("Replace").
		Negative("Keep").
		Value(result)
	return huh.NewForm(huh.NewGroup(field)).
		WithTheme(confirmTheme()).
		WithShowHelp(false)
}
