package cli

import (
	"fmt"
	"time"

	"github.com/jengzang/meteorites-backend-go/internal/middleware"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

// tokenCmd mints bearer tokens; requests carrying one are rate limited per
// subject instead of per address
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a client token signed with jwt_secret",
	Long: `Issue an HS256 bearer token for a client.

Requests sending "Authorization: Bearer <token>" are rate limited by the token
subject instead of the client address.

Example:
  meteorites token --subject dashboard --ttl 720h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		token, err := middleware.SignClientToken(cfg.JWTSecret, tokenSubject, tokenTTL, time.Now())
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "client identity stored in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime, 0 for no expiry")
	_ = tokenCmd.MarkFlagRequired("subject")
}
