package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/org-portal/internal/core/events"
)

var routeCmd = &cobra.Command{
	Use:   "route <fragment>",
	Short: "Resolve a hash fragment for the stored session",
	Long: `Resolve a fragment such as #/employees against the session persisted in storage
and print the page the router lands on, following guard redirects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		defer deps.Close()

		return resolveRoute(cmd, deps, args[0])
	},
}

func resolveRoute(cmd *cobra.Command, deps *Dependencies, fragment string) error {
	deps.Bus.Subscribe(events.EventTypePageActivated, func(ctx context.Context, event events.Event) error {
		deps.Logger.Debug("page activated",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	view, err := deps.Router.Navigate(fragment)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		Requested string      `json:"requested"`
		Location  string      `json:"location"`
		Session   string      `json:"session,omitempty"`
		View      interface{} `json:"view"`
	}{
		Requested: fragment,
		Location:  deps.Router.Location(),
		Session:   deps.Session().Email(),
		View:      view,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
