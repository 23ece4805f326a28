package cmd

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay ledger entries and check every running balance",
		Long: `verify replays each account's general ledger entries from zero and checks
that every balance_after continues the chain and that the final value
equals the account's stored balance. It exits non-zero when any account
does not reconcile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireOrg(); err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, e *engine) error {
				var results []domain.ChainVerification
				if accountID != "" {
					res, err := e.services.Ledger.VerifyAccountChain(ctx, a.actor(), accountID)
					if err != nil {
						return err
					}
					results = append(results, *res)
				} else {
					all, err := e.services.Ledger.VerifyOrganization(ctx, a.actor())
					if err != nil {
						return err
					}
					results = all
				}

				out := cmd.OutOrStdout()
				failed := 0
				for _, r := range results {
					if r.Reconciles() {
						fmt.Fprintf(out, "ok    %s entries=%d balance=%s\n", r.AccountID, r.EntryCount, r.StoredBalance.String())
						continue
					}
					failed++
					fmt.Fprintf(out, "FAIL  %s entries=%d replayed=%s last=%s stored=%s\n",
						r.AccountID, r.EntryCount, r.ReplayedBalance.String(), r.LastBalance.String(), r.StoredBalance.String())
					for _, b := range r.Breaks {
						fmt.Fprintf(out, "      entry %s (seq %d): expected %s, recorded %s\n",
							b.EntryID, b.Sequence, b.Expected.String(), b.Recorded.String())
					}
				}
				if failed > 0 {
					return fmt.Errorf("%d of %d accounts do not reconcile", failed, len(results))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "verify a single account")
	return cmd
}
