package main

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/al-ius/aus-address-matcher/internal/config"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/postgres"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer/sqlite"
)

// createPingCmd creates a command to test gazetteer connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test gazetteer connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			open, err := openerFor(cfg, logger)
			if err != nil {
				return err
			}
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Gazetteer connection successful (%s)\n", cfg.Store.Driver)

			counter, ok := store.(gazetteer.Counter)
			if !ok {
				return nil
			}
			counts, err := counter.Counts(cmd.Context())
			if err != nil {
				return err
			}
			tables := make([]string, 0, len(counts))
			for t := range counts {
				tables = append(tables, t)
			}
			sort.Strings(tables)
			for _, t := range tables {
				fmt.Fprintf(out, "  %-26s %d\n", t, counts[t])
			}
			return nil
		},
	}
}

// createInitDBCmd creates a command that loads a fixture into a new gazetteer
func createInitDBCmd() *cobra.Command {
	var fixture, out string

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Build a gazetteer database from a YAML fixture",
		Long: `Loads a fixture into a new SQLite file (--out, default store.path), or into the
configured PostgreSQL database when store.driver is postgres. An existing
gazetteer is never overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fixture == "" {
				return eris.New("--fixture is required")
			}
			f, err := gazetteer.LoadFixture(fixture)
			if err != nil {
				return err
			}

			switch cfg.Store.Driver {
			case config.DriverPostgres:
				err = postgres.Create(cmd.Context(), postgres.DSN(cfg.Store.DatabaseURL), f, logger)
			default:
				if out == "" {
					out = cfg.Store.Path
				}
				err = sqlite.Create(cmd.Context(), out, f, logger)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d localities, %d streets, %d addresses\n",
				len(f.Localities), len(f.Streets), len(f.Addresses))
			return nil
		},
	}

	cmd.Flags().StringVar(&fixture, "fixture", "", "gazetteer fixture (YAML)")
	cmd.Flags().StringVar(&out, "out", "", "SQLite file to create (default store.path)")

	return cmd
}
