package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/mcpserver"
)

var mcpFlags struct {
	http bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose your profile to agents over MCP",
	Long: `Run an MCP server with the get-profile, share-link and recent-activity
tools. It speaks stdio by default; --http serves streamable HTTP on a random
local port instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		srv := mcpserver.New(a.svc, version)
		if !mcpFlags.http {
			return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
		}

		if _, err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := srv.Stop(); err != nil {
				logger.Warn("stopping MCP server: %v", err)
			}
		}()
		cmd.Println(srv.URL())
		<-ctx.Done()
		return nil
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpFlags.http, "http", false, "Serve streamable HTTP instead of stdio")
}
