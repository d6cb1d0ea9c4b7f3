package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/alexanderramin/orgchart/internal/config"
	"github.com/alexanderramin/orgchart/internal/mirror"
	"github.com/alexanderramin/orgchart/internal/service"
	"github.com/spf13/cobra"
)

// App holds the settings and collaborators shared by all commands.
type App struct {
	Config config.Config
	Logger *slog.Logger

	// Observer receives service use-case events. Nil disables them.
	Observer service.UseCaseObserver

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Nil uses a huh form.
	Confirm func(title string) (bool, error)

	// Opener overrides the SQLite store, mainly for tests.
	Opener func(rootName string) mirror.Opener
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return a.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := wizardConfirm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// openSession starts a mirror over the configured store. rootName seeds the
// organization when the store is empty; "" uses the configured root name.
func (a *App) openSession(ctx context.Context, rootName string) *session {
	if rootName == "" {
		rootName = a.Config.RootName
	}

	var open mirror.Opener
	if a.Opener != nil {
		open = a.Opener(rootName)
	} else {
		open = mirror.SQLiteOpener(a.Config.DBPath, rootName, a.Observer)
	}

	m := mirror.New(ctx, open,
		mirror.WithLogger(a.logger()),
		mirror.WithResponseBuffer(a.Config.QueueSize),
	)
	return &session{mirror: m, logger: a.logger()}
}

// NewRootCmd creates the top-level "orgchart" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "orgchart",
		Short: "Organization chart editor backed by a searchable store",
		Long: `Edit an organization's offices and positions by dragging them around a
chart. Every edit is mirrored into a local SQLite store that can be searched,
exported to a workbook or PDF, and replaced from a workbook.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&app.Config.DBPath, "db", app.Config.DBPath, "Path to the organization store")

	root.AddCommand(
		newNewCmd(app),
		newOpenCmd(app),
		newExportCmd(app),
		newTreeCmd(app),
		newSearchCmd(app),
		newMoveCmd(app),
		newSwapCmd(app),
		newEditCmd(app),
	)

	return root
}
