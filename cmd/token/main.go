// Command token mints an access token for the leave registration endpoints.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/config"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

var subject string

var rootCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for POST /api/v1/leave-logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadJWT()
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		token, expiresAt, err := jwt.NewJWTService(cfg.Secret, cfg.AccessExpiration).GenerateAccessToken(subject)
		if err != nil {
			return fmt.Errorf("error generating token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintln(cmd.ErrOrStderr(), "expires at", time.Unix(expiresAt, 0).Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&subject, "subject", "", "operator or client the token is issued to")
	_ = rootCmd.MarkFlagRequired("subject")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
