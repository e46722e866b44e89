package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timbertrack/timber/internal/cli/formatter"
)

func newClientCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "client",
		Aliases: []string{"project"},
		Short:   "Manage clients",
	}

	cmd.AddCommand(
		newClientAddCmd(app),
		newClientRemoveCmd(app),
		newClientListCmd(app),
	)

	return cmd
}

func newClientAddCmd(app *App) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.Clients.Add(ctx, args[0], note)
			if err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added client %s (#%d)\n", formatter.Bold(args[0]), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Free-form note about the client")
	return cmd
}

func newClientRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME|ID",
		Aliases: []string{"rm"},
		Short:   "Remove a client that has no sessions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveClient(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Clients.Remove(ctx, id); err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed client %s\n", args[0])
			return nil
		},
	}
}

func newClientListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clients",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			clients, err := app.Clients.List(ctx)
			if err != nil {
				return app.describe(ctx, err)
			}
			if len(clients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No clients found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClientList(clients))
			return nil
		},
	}
}
