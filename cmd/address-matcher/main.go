package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/config"
)

var (
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := createRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "address-matcher",
		Short: "Australian GNAF address matcher",
		Long: `Resolves free-text Australian addresses to records in the Geocoded National
Address File by fuzzy street search, local candidate scoring and best match
selection.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(configFile); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			logger, err = config.InitLogger(cfg.Log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml if present)")

	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createEvalCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createInitDBCmd())

	return rootCmd
}
