// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/core/services"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/config"
	"github.com/SscSPs/ledger_posting_engine/internal/platform/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// engine is what a command needs to run engine operations.
type engine struct {
	cfg      *config.Config
	services *portssvc.ServiceContainer
	close    func()
}

// dependencies lets tests replace configuration loading and storage.
type dependencies struct {
	loadConfig func() (*config.Config, error)
	open       func(ctx context.Context, cfg *config.Config) (*engine, error)
}

type app struct {
	envFile string
	debug   bool
	orgID   string
	userID  string
	deps    dependencies
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}
	return a.deps.loadConfig()
}

// openStorage opens the configured storage without migrating it.
func openStorage(ctx context.Context, cfg *config.Config) (*engine, error) {
	repos, closeRepos, err := storage.Open(ctx, cfg, storage.Options{})
	if err != nil {
		return nil, err
	}
	return &engine{
		cfg:      cfg,
		services: services.NewServiceContainer(cfg, repos, services.Collaborators{}),
		close:    closeRepos,
	}, nil
}

// actor is the operator identity; it holds every administrative permission.
func (a *app) actor() domain.Actor {
	return domain.NewActor(a.userID, a.orgID, domain.PermissionsForRole(domain.RoleAdmin)...)
}

func (a *app) requireOrg() error {
	if a.orgID == "" {
		return fmt.Errorf("--org is required")
	}
	return nil
}

// withEngine opens the engine, runs fn and closes it again.
func (a *app) withEngine(cmd *cobra.Command, fn func(ctx context.Context, e *engine) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	e, err := a.deps.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.close()
	return fn(ctx, e)
}

// newRootCmd builds the command tree. Zero-valued dependencies use the service configuration.
func newRootCmd(deps dependencies) *cobra.Command {
	if deps.loadConfig == nil {
		deps.loadConfig = config.LoadConfig
	}
	if deps.open == nil {
		deps.open = openStorage
	}
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the ledger posting engine",
		Long: `ledgerctl runs administrative ledger operations directly against the
configured storage: closing and reopening accounting periods, verifying
ledger balance chains, applying journal type definitions and issuing
access tokens for the HTTP API.

Example:
  ledgerctl --org org-1 period close 2026-10
  ledgerctl --org org-1 verify
  ledgerctl --org org-1 journal-types apply -f journal_types.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logLevel := slog.LevelInfo
			if a.debug {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load before configuration (default .env)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.orgID, "org", "", "organization ID")
	root.PersistentFlags().StringVar(&a.userID, "user", "ledgerctl", "user ID recorded in audit fields")

	root.AddCommand(newPeriodCmd(a))
	root.AddCommand(newVerifyCmd(a))
	root.AddCommand(newJournalTypesCmd(a))
	root.AddCommand(newTokenCmd(a))
	return root
}

// Execute runs ledgerctl against the service configuration.
func Execute() error {
	return newRootCmd(dependencies{}).Execute()
}
