package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/orgchart/internal/cli/formatter"
	"github.com/alexanderramin/orgchart/internal/export"
	"github.com/alexanderramin/orgchart/internal/layout"
	"github.com/alexanderramin/orgchart/internal/mirror"
	"github.com/alexanderramin/orgchart/internal/service"
	"github.com/alexanderramin/orgchart/internal/workbook"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var rootName string
	var yes bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Replace the stored organization with a single root office",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return errors.New("refusing to replace the organization without --yes")
				}
				ok, err := app.confirm("Start a new organization?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			s := app.openSession(cmd.Context(), rootName)
			defer s.Close()

			resp, err := s.request(cmd.Context(), mirror.NewRequest(), mirror.ResponseTree)
			if err != nil {
				return fmt.Errorf("creating organization: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created organization %s\n\n", formatter.Bold(resp.Tree.Name))
			fmt.Fprint(out, formatter.FormatOrgTree(resp.Tree))
			return nil
		},
	}

	cmd.Flags().StringVar(&rootName, "root", "", "Name of the root office (default from ORGCHART_ROOT_NAME)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open FILE",
		Short: "Replace the stored organization with the contents of a workbook",
		Long: `Import a workbook with a Hierarchy sheet (Name, Parent) and a Positions
sheet (Title, Full-Time Equivalent, Office, IDEA Grant Funded). The first
Hierarchy row is the root office. Nothing is imported if any row is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading workbook: %w", err)
			}

			s := app.openSession(cmd.Context(), "")
			defer s.Close()

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Importing "+args[0]+"…")
			}
			resp, err := s.request(cmd.Context(), mirror.OpenRequest(buf),
				mirror.ResponseTree, mirror.ResponseOpenError, mirror.ResponseOpenMissingData)
			stop()
			if err != nil {
				return fmt.Errorf("importing workbook: %w", err)
			}

			out := cmd.OutOrStdout()
			switch resp.Type {
			case mirror.ResponseOpenError:
				return errors.New(resp.Message)
			case mirror.ResponseOpenMissingData:
				fmt.Fprint(out, formatter.FormatMissingData(resp.Missing))
				return errors.New("workbook has rows with missing data")
			}

			fmt.Fprintf(out, "Imported %s from %s\n\n",
				formatter.Plural(resp.Tree.Count(), "office", "offices"), args[0])
			fmt.Fprint(out, formatter.FormatOrgTree(resp.Tree))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	format := formatXLSX
	var title string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the stored organization to a workbook or PDF chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !cmd.Flags().Changed("format") {
				format = formatFromPath(path)
			}

			s := app.openSession(cmd.Context(), "")
			defer s.Close()

			resp, err := s.request(cmd.Context(), mirror.GetTreeRequest(), mirror.ResponseTree)
			if err != nil {
				return fmt.Errorf("loading organization: %w", err)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()

			switch format {
			case formatPDF:
				if title == "" {
					title = resp.Tree.Name
				}
				err = export.WritePDF(resp.Tree, layout.Compute(resp.Tree), f, export.WithTitle(title))
			default:
				err = workbook.Write(resp.Tree, f)
			}
			if err != nil {
				return fmt.Errorf("exporting %s: %w", format, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n",
				formatter.Plural(resp.Tree.Count(), "office", "offices"), path)
			return nil
		},
	}

	cmd.Flags().Var(&format, "format", "Output format: xlsx or pdf (default from the file extension)")
	cmd.Flags().StringVar(&title, "title", "", "PDF document title (default: root office name)")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(exportFormats...))

	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the stored organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.openSession(cmd.Context(), "")
			defer s.Close()

			resp, err := s.request(cmd.Context(), mirror.GetTreeRequest(), mirror.ResponseTree)
			if err != nil {
				return fmt.Errorf("loading organization: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatOrgTree(resp.Tree))
			if stats {
				fmt.Fprintln(out)
				fmt.Fprintln(out, formatter.FormatStats(service.TreeStats(resp.Tree)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Also print office, position and FTE totals")

	return cmd
}
