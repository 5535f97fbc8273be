package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/oauthgate/svc/provider"
)

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the environment without starting the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := provider.New(cfg.Provider)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "configuration OK")
			fmt.Fprintf(out, "  environment:  %s\n", cfg.Gateway.Env)
			fmt.Fprintf(out, "  listen:       %s\n", cfg.HTTP.Addr)
			fmt.Fprintf(out, "  provider:     %s (client %s)\n", client.Name(), cfg.Provider.ClientID)
			fmt.Fprintf(out, "  login route:  %s/auth/%s/login\n", cfg.Gateway.RoutePrefix, client.Name())
			fmt.Fprintf(out, "  cookie:       %s path=%s ttl=%s secure=%t\n",
				client.CookieName(), client.CookiePath(), client.StateTTL(), cfg.Gateway.CookieSecure)
			fmt.Fprintf(out, "  metrics:      %t\n", cfg.Gateway.MetricsEnabled)
			fmt.Fprintf(out, "  tracing:      %t\n", cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint != "")
			return nil
		},
	}
}
