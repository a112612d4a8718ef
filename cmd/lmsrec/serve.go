package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/lmsrec/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the recommendation REST API",
		Example: "  lmsrec serve --addr :5000",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, s, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			recOpts, err := recommenderOptions(cfg, s)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr()
			}
			srv := server.New(src, server.Config{
				Addr:         addr,
				Mode:         cfg.Server.Mode,
				DefaultLimit: cfg.Recommender.DefaultLimit,
			}, recOpts...)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.host:server.port)")
	return cmd
}
