package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/timbertrack/timber/internal/cli/formatter"
	"github.com/timbertrack/timber/internal/domain"
)

// timberHuhTheme returns a huh theme matching the formatter palette.
func timberHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// clientSelectForm builds a select over clients writing the chosen id to
// result. It returns nil when there is nothing to choose from.
func clientSelectForm(clients []*domain.Client, result *int64) *huh.Form {
	if len(clients) == 0 {
		return nil
	}
	options := make([]huh.Option[int64], 0, len(clients))
	for _, c := range clients {
		label := c.Name
		if c.Note != "" {
			label = fmt.Sprintf("%s  %s", c.Name, formatter.Dim(formatter.Truncate(c.Note, 30)))
		}
		options = append(options, huh.NewOption(label, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Which client?").
				Options(options...).
				Value(result),
		),
	).WithTheme(timberHuhTheme()).WithShowHelp(false)
}

// pickClient asks the user to choose a client on the terminal.
func pickClient(ctx context.Context, app *App) (int64, error) {
	clients, err := app.Clients.List(ctx)
	if err != nil {
		return 0, app.describe(ctx, err)
	}
	var picked int64
	form := clientSelectForm(clients, &picked)
	if form == nil {
		return 0, fmt.Errorf("no clients yet; add one with 'timber client add NAME'")
	}
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 0, fmt.Errorf("cancelled")
		}
		return 0, fmt.Errorf("client picker: %w", err)
	}
	return picked, nil
}
