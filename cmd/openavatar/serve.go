package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/web"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve share links over HTTP",
	Long: `Serve the public part of profiles at /profile/{uid} so share links
resolve outside the CLI. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		addr := serveFlags.addr
		if addr == "" {
			addr = a.cfg.ListenAddr
		}
		logger.Info("serving profiles on %s", addr)
		cmd.Printf("Serving profiles on %s\n", addr)
		return web.New(addr, a.svc).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (defaults to listen_addr from config)")
}
