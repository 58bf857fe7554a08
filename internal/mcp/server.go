package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "skeleton-mcp"
	ServerVersion = "1.0.0"
)

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config *ServerConfig
	source SkeletonSource
	mcp    *server.MCPServer
}

// NewMCPServer creates an MCP server exposing the skeleton tools.
func NewMCPServer(config *ServerConfig, source SkeletonSource) (*MCPServer, error) {
	if config == nil {
		config = DefaultServerConfig()
	}
	if source == nil {
		return nil, fmt.Errorf("skeleton source is required")
	}
	if config.MaxBatch <= 0 {
		config.MaxBatch = DefaultServerConfig().MaxBatch
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	AddGetSkeletonTool(mcpServer, source, config)
	AddGetSkeletonsTool(mcpServer, source, config)
	AddListLanguagesTool(mcpServer, source)

	return &MCPServer{
		config: config,
		source: source,
		mcp:    mcpServer,
	}, nil
}

// Server returns the underlying mcp-go server.
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio (root %s)...", s.config.RootDir)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
