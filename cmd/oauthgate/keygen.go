package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/oauthgate/pkg/signedcookie"
)

func newKeygenCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a random value for OAUTH_42_STATE_COOKIE_SIGNING_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := generateKey(size)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
	cmd.Flags().IntVar(&size, "bytes", 48, "number of random bytes before encoding")
	return cmd
}

// generateKey returns size random bytes as unpadded base64url. The encoded
// string is what gets configured, so its length must satisfy the minimum.
func generateKey(size int) (string, error) {
	if size < signedcookie.MinSecretSize {
		return "", fmt.Errorf("--bytes must be at least %d", signedcookie.MinSecretSize)
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
