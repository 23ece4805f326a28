package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	"github.com/spf13/cobra"
)

func newPeriodCmd(a *app) *cobra.Command {
	period := &cobra.Command{
		Use:   "period",
		Short: "List, close and reopen accounting periods",
	}

	period.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the organization's accounting periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireOrg(); err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, e *engine) error {
				periods, err := e.services.Period.ListPeriods(ctx, a.actor())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCODE\tSTART\tEND\tSTATUS")
				for _, p := range periods {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.PeriodID, p.Code,
						p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly), p.Status)
				}
				return w.Flush()
			})
		},
	})

	period.AddCommand(periodStatusCmd(a, "close", "Close a period so nothing more posts into it",
		func(ctx context.Context, e *engine, id string) (*domain.AccountingPeriod, error) {
			return e.services.Period.ClosePeriod(ctx, a.actor(), id)
		}))
	period.AddCommand(periodStatusCmd(a, "reopen", "Reopen a closed period",
		func(ctx context.Context, e *engine, id string) (*domain.AccountingPeriod, error) {
			return e.services.Period.ReopenPeriod(ctx, a.actor(), id)
		}))
	return period
}

func periodStatusCmd(a *app, use, short string, change func(ctx context.Context, e *engine, id string) (*domain.AccountingPeriod, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PERIOD_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireOrg(); err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, e *engine) error {
				p, err := change(ctx, e, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "period %s (%s) is now %s\n", p.Code, p.PeriodID, p.Status)
				return nil
			})
		},
	}
}
