package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/ledger_posting_engine/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newJournalTypesCmd(a *app) *cobra.Command {
	jt := &cobra.Command{
		Use:   "journal-types",
		Short: "Manage journal types and their voucher rules",
	}

	var file string
	apply := &cobra.Command{
		Use:   "apply",
		Short: "Create or update journal types from a YAML file",
		Long: `apply reads journal type definitions and upserts them by code.

File format:
  types:
    - code: PV
      name: Payment Voucher
      kind: PAYMENT
      rules:
        - kind: MAX_AMOUNT
          amount: "50000"
        - kind: BANK_ACCOUNTS_ONLY`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireOrg(); err != nil {
				return err
			}
			req, err := readJournalTypes(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			types, err := req.ToDomain()
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context, e *engine) error {
				applied, err := e.services.JournalType.ApplyJournalTypes(ctx, a.actor(), types)
				if err != nil {
					return err
				}
				for _, t := range applied {
					fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s) kind=%s rules=%d\n", t.Code, t.JournalTypeID, t.Kind, len(t.Rules))
				}
				return nil
			})
		},
	}
	apply.Flags().StringVarP(&file, "file", "f", "", `YAML file with journal types ("-" reads stdin)`)
	_ = apply.MarkFlagRequired("file")
	jt.AddCommand(apply)
	return jt
}

// readJournalTypes decodes and validates a definitions file with the same rules as the HTTP API.
func readJournalTypes(path string, stdin io.Reader) (dto.ApplyJournalTypesRequest, error) {
	var req dto.ApplyJournalTypesRequest
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode journal types: %w", err)
	}

	v := validator.New()
	v.SetTagName("binding")
	if err := v.Struct(req); err != nil {
		return req, fmt.Errorf("invalid journal types: %w", err)
	}
	return req, nil
}
