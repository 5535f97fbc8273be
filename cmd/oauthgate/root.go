package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/oauthgate/pkg/config"
)

const serviceName = "oauthgate"

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "OAuth2 Authorization Code gateway with signed CSRF cookies",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFiles(envFiles, cmd.Flags().Changed("env-file"))
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"},
		"dotenv files to load before reading the environment; earlier files win")

	root.AddCommand(newServeCmd(), newKeygenCmd(), newCheckConfigCmd())
	return root
}

// loadEnvFiles loads dotenv files. The default .env is optional; files named
// explicitly on the command line must exist.
func loadEnvFiles(files []string, explicit bool) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			continue
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	return config.LoadEnv(existing...)
}
