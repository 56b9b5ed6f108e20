package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tokenjohn/internal/store"
	"github.com/dropDatabas3/tokenjohn/internal/store/adapters/pg"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Aplica las migraciones SQL embebidas (solo postgres)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate: storage.driver %q has no schema to migrate", cfg.Storage.Driver)
			}

			ctx := cmd.Context()
			dal, err := store.Open(ctx, cfg.Storage.Driver, store.AdapterConfig{
				DSN:            cfg.Storage.DSN,
				MaxConns:       2,
				MinConns:       1,
				AcquireTimeout: cfg.Storage.Postgres.AcquireTimeout,
			})
			if err != nil {
				return err
			}
			defer dal.Close()

			conn, ok := dal.(*pg.Connection)
			if !ok {
				return fmt.Errorf("migrate: unexpected connection type %T", dal)
			}
			return pg.Migrate(ctx, conn.Pool(), command)
		},
	}
}
