package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coloredin/coloredin-server/internal/auth"
)

// TokenCmd returns the token command group.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API access tokens",
	}
	cmd.AddCommand(tokenIssueCmd())
	return cmd
}

func tokenIssueCmd() *cobra.Command {
	var (
		userID  string
		secret  string
		keyPath string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an access token for a user",
		Long: `Issue a PASETO access token for a user.

The signing key comes from --secret (or AUTH_SECRET), matching a server that
derives its key from the same secret, or from the key file at --key-path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("AUTH_SECRET")
			}
			if secret == "" && keyPath == "" {
				return errors.New("either --secret, AUTH_SECRET or --key-path is required")
			}

			if secret == "" {
				// Never generate a key here; a new key would not match the server's.
				if _, err := os.Stat(keyPath); err != nil {
					return fmt.Errorf("key file: %w", err)
				}
			}

			key, err := auth.ResolveKey(secret, keyPath)
			if err != nil {
				return fmt.Errorf("failed to load signing key: %w", err)
			}

			tokens, err := auth.NewTokenService(key, ttl)
			if err != nil {
				return err
			}

			token, expiresAt, err := tokens.GenerateAccessToken(userID)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return err
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to issue the token for")
	cmd.Flags().StringVar(&secret, "secret", "", "Secret the server derives its key from")
	cmd.Flags().StringVar(&keyPath, "key-path", "", "Path of the server's generated key file")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
