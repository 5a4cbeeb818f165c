// Package cli implements darewctl, the operator command line that works
// directly against the configured storage backend.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"darew.com/internal/auth"
	"darew.com/internal/config"
	"darew.com/internal/content"
	"darew.com/internal/kv"
)

// CLIActor is the audit name recorded for changes made from the command line.
const CLIActor = "darewctl"

// RootOptions holds global flags and the hooks tests replace.
type RootOptions struct {
	Driver  string
	DataDir string

	// Open builds the storage backend; defaults to kv.Open.
	Open func(ctx context.Context, cfg kv.Config) (kv.Store, error)
	// Now stamps dumps; defaults to time.Now.
	Now func() time.Time
	// Logger receives store warnings; defaults to a no-op logger.
	Logger *zap.Logger

	cfg config.Config
}

// NewRootCommand creates the darewctl root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "darewctl",
		Short:         "Operate the Darew site state",
		Long:          "Inspect, export and migrate the durable state behind the Darew corporate site and admin console.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "storage driver override (memory|file|sqlite|postgres|s3)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory override for the file driver")

	cmd.AddCommand(newSchemaCommand(opts))
	cmd.AddCommand(newDumpCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newUsersCommand(opts))
	cmd.AddCommand(newLogsCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

func (o *RootOptions) load() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.Driver != "" {
		cfg.Storage.Driver = o.Driver
	}
	if o.DataDir != "" {
		cfg.Storage.Dir = o.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	if o.Open == nil {
		o.Open = kv.Open
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// state is the set of stores a command works on.
type state struct {
	kv         kv.Store
	identities *auth.Store
	content    *content.Store
}

func (o *RootOptions) openState(ctx context.Context) (*state, error) {
	st, err := o.Open(ctx, o.cfg.KV())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	identities, err := auth.New(ctx, st, auth.WithHashCost(o.cfg.Auth.HashCost), auth.WithLogger(o.Logger))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	catalog, err := content.New(ctx, st, content.WithLogger(o.Logger))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &state{kv: st, identities: identities, content: catalog}, nil
}

func (s *state) Close() error { return s.kv.Close() }
