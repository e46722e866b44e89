package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timbertrack/timber/internal/cli/formatter"
	"github.com/timbertrack/timber/internal/domain"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "summary [day|week|month]",
		Aliases:   []string{"report"},
		Short:     "Total time per client for today, this pay week (Sat–Fri) or this month",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"day", "week", "month"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			period, err := domain.ParsePeriod(name)
			if err != nil {
				return err
			}
			sum, err := app.Summary.ForPeriod(ctx, period)
			if err != nil {
				return app.describe(ctx, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(string(period), sum))
			return nil
		},
	}
}
