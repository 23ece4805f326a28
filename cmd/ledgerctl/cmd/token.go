package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/SscSPs/ledger_posting_engine/internal/utils"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Issue bearer tokens for the HTTP API",
	}

	var (
		role  string
		perms []string
		ttl   time.Duration
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token for --user in --org",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireOrg(); err != nil {
				return err
			}
			r := domain.Role(strings.ToUpper(role))
			if domain.PermissionsForRole(r) == nil {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWTExpiryDuration
			}
			signed, err := utils.GenerateJWT(a.userID, a.orgID, string(r), perms, cfg.JWTSecret, ttl, cfg.JWTIssuer)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	issue.Flags().StringVar(&role, "role", string(domain.RoleReadOnly), "ADMIN, ACCOUNTANT, APPROVER or READONLY")
	issue.Flags().StringSliceVar(&perms, "perm", nil, "extra permission to grant (repeatable)")
	issue.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_EXPIRY_DURATION)")
	token.AddCommand(issue)
	return token
}
