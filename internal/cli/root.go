package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Clients  service.ClientService
	Sessions service.SessionService
	Summary  service.SummaryService
	Clock    domain.Clock

	// IsInteractive reports whether stdin is a terminal. Interactive
	// pickers and the watch view are only offered when it returns true.
	IsInteractive func() bool

	// RunProgram runs a bubbletea program. Tests replace it to drive the
	// model synchronously.
	RunProgram func(m tea.Model) (tea.Model, error)
}

func (a *App) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runProgram(m tea.Model) (tea.Model, error) {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	return tea.NewProgram(m).Run()
}

// NewRootCmd creates the top-level "timber" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "timber",
		Short:         "Track time spent on clients and summarize it by day, pay week or month",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newClientCmd(app),
		newSessionCmd(app),
		newSummaryCmd(app),
	)

	return root
}

// Execute runs the command tree with args and returns the error to report.
// Service failures come back as *CommandError with a stable category.
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
