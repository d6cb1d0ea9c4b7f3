package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/alexanderramin/orgchart/internal/editor"
	"github.com/alexanderramin/orgchart/internal/mirror"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move OFFICE TARGET",
		Short: "Move an office (with its sub-offices) under another office",
		Long: `Move OFFICE under TARGET. If TARGET is inside OFFICE's own branch, OFFICE's
sub-offices are first handed to OFFICE's parent so the chart stays a tree.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(cmd, app, editor.ModeMove, args[0], args[1])
		},
	}
}

func newSwapCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "swap OFFICE OTHER",
		Short: "Exchange the places of two offices in the chart",
		Long: `Exchange the chart positions of two offices. Each office keeps its name and
positions; their parents and sub-offices trade places. Swapping with the root
office moves OFFICE under it instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrop(cmd, app, editor.ModeSwap, args[0], args[1])
		},
	}
}

// runDrop applies one drop through the editor, as if OFFICE were dragged
// onto TARGET in the chart.
func runDrop(cmd *cobra.Command, app *App, mode editor.Mode, dragged, target string) error {
	ctx := cmd.Context()
	s := app.openSession(ctx, "")
	defer s.Close()

	ed, err := loadEditor(ctx, s, app)
	if err != nil {
		return err
	}
	root := ed.Root()
	for _, name := range []string{dragged, target} {
		if root.Find(name) == nil {
			return fmt.Errorf("office %q not found", name)
		}
	}
	if dragged == root.Name {
		return errors.New("the root office cannot be moved")
	}

	ed.SetMode(mode)
	changed, err := ed.Drop(dragged, target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !changed {
		fmt.Fprintln(out, formatter.Dim("Nothing to change."))
		return nil
	}

	// The tree reply arrives after the edit has been stored or has failed.
	if _, err := s.request(ctx, mirror.GetTreeRequest(), mirror.ResponseTree); err != nil {
		return fmt.Errorf("storing edit: %w", err)
	}
	fmt.Fprintln(out, dropSummary(mode, root.Name, dragged, target))
	return nil
}

func loadEditor(ctx context.Context, s *session, app *App) (*editor.Editor, error) {
	resp, err := s.request(ctx, mirror.GetTreeRequest(), mirror.ResponseTree)
	if err != nil {
		return nil, fmt.Errorf("loading organization: %w", err)
	}
	ed := editor.New(s, app.logger())
	ed.Load(resp.Tree)
	return ed, nil
}

func dropSummary(mode editor.Mode, rootName, dragged, target string) string {
	if mode == editor.ModeMove || target == rootName {
		return fmt.Sprintf("Moved %s under %s.", formatter.Bold(dragged), formatter.Bold(target))
	}
	return fmt.Sprintf("Swapped %s and %s.", formatter.Bold(dragged), formatter.Bold(target))
}

func newEditCmd(app *App) *cobra.Command {
	mode := modeValue(editor.ModeSwap)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive chart editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("edit needs an interactive terminal")
			}

			s := app.openSession(cmd.Context(), "")
			defer s.Close()

			model := newChartModel(s, chartOptions{
				Mode:        editor.Mode(mode),
				MaxDistance: app.Config.MaxDropDistance,
				Logger:      app.logger(),
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			model.stop()
			return err
		},
	}

	cmd.Flags().Var(&mode, "mode", "Initial drop mode: swap or move")
	_ = cmd.RegisterFlagCompletionFunc("mode", fixedCompletion("swap", "move"))

	return cmd
}
