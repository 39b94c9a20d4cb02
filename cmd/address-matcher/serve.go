package main

import (
	"github.com/spf13/cobra"

	"github.com/al-ius/aus-address-matcher/internal/web"
)

func createServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP lookup API",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, open, err := newDispatcher(cfg, logger)
			if err != nil {
				return err
			}
			sc := cfg.Server
			if port != 0 {
				sc.Port = port
			}
			return web.NewServer(sc, open, d, logger).Start(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default server.port)")

	return cmd
}
