package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/timbertrack/timber/internal/cli/formatter"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/service"
)

// clientRefValue is a pflag.Value that parses NAME|ID into a ClientRef.
type clientRefValue struct {
	ref *service.ClientRef
}

var _ pflag.Value = (*clientRefValue)(nil)

func (v *clientRefValue) String() string {
	if _, byID := v.ref.ID(); !byID && v.ref.Name() == "" {
		return ""
	}
	return v.ref.String()
}

func (v *clientRefValue) Set(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("client must not be empty")
	}
	*v.ref = service.ParseClientRef(s)
	return nil
}

func (v *clientRefValue) Type() string { return "client" }

// resolveClient turns NAME|ID input into an existing client id.
func resolveClient(ctx context.Context, app *App, input string) (int64, error) {
	if strings.TrimSpace(input) == "" {
		return 0, fmt.Errorf("client is required")
	}
	id, err := app.Clients.Resolve(ctx, service.ParseClientRef(input))
	if err != nil {
		return 0, app.describe(ctx, err)
	}
	return id, nil
}

// sessionViews attaches client names to sessions for display.
func sessionViews(ctx context.Context, app *App, sessions []*domain.Session) ([]formatter.SessionView, error) {
	clients, err := app.Clients.List(ctx)
	if err != nil {
		return nil, app.describe(ctx, err)
	}
	names := make(map[int64]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	views := make([]formatter.SessionView, 0, len(sessions))
	for _, s := range sessions {
		name, ok := names[s.ClientID]
		if !ok {
			name = fmt.Sprintf("#%d", s.ClientID)
		}
		views = append(views, formatter.SessionView{Session: s, ClientName: name})
	}
	return views, nil
}
