package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"darew.com/internal/kv"
)

type migrateTarget struct {
	driver     string
	dir        string
	sqlitePath string
	pgDSN      string
	s3Bucket   string
	s3Prefix   string
}

func newMigrateCommand(opts *RootOptions) *cobra.Command {
	var to migrateTarget
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every stored key from the configured backend to another one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := opts.cfg.KV()
			dst, err := to.config(src)
			if err != nil {
				return err
			}
			if dst == src {
				return errors.New("source and destination are the same backend")
			}
			ctx := cmd.Context()

			from, err := opts.Open(ctx, src)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer from.Close()
			target, err := opts.Open(ctx, dst)
			if err != nil {
				return fmt.Errorf("open destination: %w", err)
			}
			defer target.Close()

			n, err := kv.Copy(ctx, from, target)
			if err != nil {
				return err
			}
			opts.Logger.Info("migrated",
				zap.String("from", string(src.Driver)),
				zap.String("to", string(dst.Driver)),
				zap.Int("keys", n),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d keys from %s to %s\n", n, src.Driver, dst.Driver)
			return nil
		},
	}
	cmd.Flags().StringVar(&to.driver, "to", "", "destination driver (memory|file|sqlite|postgres|s3)")
	cmd.Flags().StringVar(&to.dir, "to-dir", "", "destination directory for the file driver")
	cmd.Flags().StringVar(&to.sqlitePath, "to-sqlite", "", "destination SQLite path")
	cmd.Flags().StringVar(&to.pgDSN, "to-pg-dsn", "", "destination Postgres DSN")
	cmd.Flags().StringVar(&to.s3Bucket, "to-s3-bucket", "", "destination S3 bucket")
	cmd.Flags().StringVar(&to.s3Prefix, "to-s3-prefix", "", "destination S3 key prefix")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// config derives the destination from the source so that shared settings
// such as S3 credentials carry over unless overridden.
func (t migrateTarget) config(src kv.Config) (kv.Config, error) {
	dst := src
	dst.Driver = kv.Driver(t.driver)
	if t.dir != "" {
		dst.Dir = t.dir
	}
	if t.sqlitePath != "" {
		dst.SQLitePath = t.sqlitePath
	}
	if t.pgDSN != "" {
		dst.PostgresDSN = t.pgDSN
	}
	if t.s3Bucket != "" {
		dst.S3.Bucket = t.s3Bucket
	}
	if t.s3Prefix != "" {
		dst.S3.Prefix = t.s3Prefix
	}
	switch dst.Driver {
	case kv.DriverMemory, kv.DriverFile, kv.DriverSQLite:
	case kv.DriverPostgres:
		if dst.PostgresDSN == "" {
			return kv.Config{}, errors.New("--to-pg-dsn is required for postgres")
		}
	case kv.DriverS3:
		if dst.S3.Bucket == "" {
			return kv.Config{}, errors.New("--to-s3-bucket is required for s3")
		}
	default:
		return kv.Config{}, fmt.Errorf("unknown destination driver %q", t.driver)
	}
	return dst, nil
}
