package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timbertrack/timber/internal/cli/formatter"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/service"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start, end and inspect work sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionEndCmd(app),
		newSessionPatchCmd(app),
		newSessionSwitchCmd(app),
		newSessionRemoveCmd(app),
		newSessionListCmd(app),
		newSessionCurrentCmd(app),
		newSessionWatchCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start [CLIENT] [NOTE...]",
		Short: "Start a session for a client",
		Long: "Start a session for a client given by name or id. Without a client,\n" +
			"an interactive terminal offers a picker.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var input string
			if len(args) > 0 {
				input = args[0]
			} else if app.interactive() {
				picked, err := pickClient(ctx, app)
				if err != nil {
					return err
				}
				input = strconv.FormatInt(picked, 10)
			}
			clientID, err := resolveClient(ctx, app, input)
			if err != nil {
				return err
			}

			s, err := app.Sessions.Start(ctx, clientID, noteFromArgs(args))
			if err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started session #%d for %s at %s\n",
				s.ID, formatter.Bold(app.clientName(ctx, clientID)), formatter.LocalTime(s.Start, app.now()))
			return nil
		},
	}
}

func newSessionEndCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, err := app.Sessions.End(ctx)
			if err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ended session #%d for %s: %s\n",
				s.ID, formatter.Bold(app.clientName(ctx, s.ClientID)), formatter.Minutes(s.Minutes(*s.End)))
			return nil
		},
	}
}

func newSessionPatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "patch MINUTES",
		Short: "Add (or with a minus sign, remove) minutes on the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			minutes, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid minutes %q: %w", args[0], err)
			}
			s, err := app.Sessions.Patch(ctx, minutes)
			if err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patched session #%d: offset now %dm, elapsed %s\n",
				s.ID, s.OffsetMinutes, formatter.Minutes(s.Minutes(app.now())))
			return nil
		},
	}
}

func newSessionSwitchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch CLIENT [NOTE...]",
		Short: "End the active session and start one for another client",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			clientID, err := resolveClient(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Sessions.Switch(ctx, clientID, noteFromArgs(args))
			if err != nil {
				return app.describe(ctx, err)
			}
			out := cmd.OutOrStdout()
			if res.Ended != nil {
				fmt.Fprintf(out, "Ended session #%d for %s: %s\n",
					res.Ended.ID, formatter.Bold(app.clientName(ctx, res.Ended.ClientID)),
					formatter.Minutes(res.Ended.Minutes(*res.Ended.End)))
			}
			fmt.Fprintf(out, "Started session #%d for %s\n",
				res.Started.ID, formatter.Bold(app.clientName(ctx, clientID)))
			return nil
		},
	}
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			if err := app.Sessions.Delete(ctx, id); err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session #%d\n", id)
			return nil
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	var client service.ClientRef
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var clientID *int64
			if cmd.Flags().Changed("client") {
				id, err := app.Clients.Resolve(ctx, client)
				if err != nil {
					return app.describe(ctx, err)
				}
				clientID = &id
			}

			sessions, err := app.Sessions.List(ctx, clientID)
			if err != nil {
				return app.describe(ctx, err)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
				return nil
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}
			views, err := sessionViews(ctx, app, sessions)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(views, app.now()))
			return nil
		},
	}

	cmd.Flags().Var(&clientRefValue{ref: &client}, "client", "Only sessions for this client (NAME|ID)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many sessions")
	return cmd
}

func newSessionCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "current",
		Aliases: []string{"status"},
		Short:   "Show the active session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Sessions.Active(ctx)
			if err != nil {
				return app.describe(ctx, err)
			}
			if s == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No active session."))
				return nil
			}
			views, err := sessionViews(ctx, app, []*domain.Session{s})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(views[0], app.now()))
			return nil
		},
	}
}

// errNotInteractive is returned by commands that need a terminal.
var errNotInteractive = errors.New("session watch needs an interactive terminal; use \"timber session current\" instead")

func newSessionWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the active session live (+/- patch 5 minutes, e ends, q quits)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errNotInteractive
			}
			ctx := cmd.Context()
			s, err := app.Sessions.Active(ctx)
			if err != nil {
				return app.describe(ctx, err)
			}
			if s == nil {
				return app.describe(ctx, service.ErrNoActiveSession)
			}

			final, err := app.runProgram(newWatchModel(ctx, app, s))
			if err != nil {
				return fmt.Errorf("running watch view: %w", err)
			}
			if m, ok := final.(watchModel); ok {
				if m.err != nil {
					return app.describe(ctx, m.err)
				}
				if m.ended {
					fmt.Fprintf(cmd.OutOrStdout(), "Ended session #%d: %s\n",
						m.session.ID, formatter.Minutes(m.session.Minutes(*m.session.End)))
				}
			}
			return nil
		},
	}
}

// noteFromArgs joins everything after the client argument into a note.
func noteFromArgs(args []string) string {
	if len(args) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.Join(args[1:], " "))
}
