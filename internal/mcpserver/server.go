// Package mcpserver exposes profile lookups to MCP clients, over stdio or a
// local streamable HTTP endpoint.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/logger"
)

// Accounts is the part of the account service the tools call.
type Accounts interface {
	MyProfile(ctx context.Context) (*account.Profile, error)
	Profile(ctx context.Context, uid string) (*account.Profile, error)
	OpenLink(ctx context.Context, link string) (*account.Profile, error)
	ShareLink(ctx context.Context) (string, error)
	Activity(ctx context.Context) ([]account.Activity, error)
}

// Server wraps an MCP server with the openavatar tools registered.
type Server struct {
	accounts  Accounts
	version   string
	mcpServer *server.MCPServer

	mu        sync.Mutex
	stdServer *http.Server
	port      int
}

// New creates a server with every tool registered.
func New(accounts Accounts, version string) *Server {
	s := &Server{accounts: accounts, version: version}
	s.mcpServer = server.NewMCPServer(
		"openavatar",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// ServeStdio speaks MCP over in and out until ctx is cancelled or in closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.Debug("Starting MCP stdio server")
	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

// Start serves streamable HTTP on a random local port and returns it.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	// The listener is handed to Serve directly so the port cannot be taken
	// between lookup and bind.
	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	))
	s.stdServer = &http.Server{Handler: mux}

	logger.Debug("Starting MCP server on port %d", s.port)

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	return s.port, nil
}

// Stop shuts the HTTP endpoint down. It is a no-op when not started.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
