package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/alexanderramin/orgchart/internal/mirror"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	category := categoryValue(mirror.SearchOffices)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Full-text search over offices or positions",
		Long: `Search office names or position titles. Every word must match the start
of a word in the result, so "spec ed" finds "Special Education".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			s := app.openSession(cmd.Context(), "")
			defer s.Close()

			resp, err := s.request(cmd.Context(),
				mirror.SearchRequest(mirror.SearchCategory(category), query),
				mirror.ResponseOffices, mirror.ResponsePositions)
			if err != nil {
				return fmt.Errorf("searching %s: %w", category, err)
			}

			out := cmd.OutOrStdout()
			if resp.Type == mirror.ResponsePositions {
				fmt.Fprint(out, formatter.FormatPositionResults(query, resp.Positions))
			} else {
				fmt.Fprint(out, formatter.FormatOfficeResults(query, resp.Offices))
			}
			return nil
		},
	}

	cmd.Flags().Var(&category, "in", "What to search: offices or positions")
	_ = cmd.RegisterFlagCompletionFunc("in", fixedCompletion(string(mirror.SearchOffices), string(mirror.SearchPositions)))

	return cmd
}
