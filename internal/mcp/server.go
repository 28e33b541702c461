package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/djangolens/djangolens/internal/cache"
	"github.com/djangolens/djangolens/internal/config"
	"github.com/djangolens/djangolens/internal/project"
	"github.com/djangolens/djangolens/internal/search"
	"github.com/djangolens/djangolens/internal/watcher"
)

// Server manages the MCP server lifecycle: an initial project scan, the
// per-file extraction cache, a file watcher for invalidation, and the
// stdio transport.
type Server struct {
	root    string
	cache   *cache.FileCache
	index   *search.Index
	watcher *watcher.FileWatcher
	mcp     *server.MCPServer
}

// NewServer builds a fully wired server for the project rooted at root.
func NewServer(ctx context.Context, root string, cfg *config.Config) (*Server, error) {
	fileCache, err := cache.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	discovery, err := project.NewDiscovery(root, cfg.Paths.Ignore)
	if err != nil {
		fileCache.Close()
		return nil, err
	}

	// Initial scan feeds the symbol index; per-file tools stay live via
	// the cache + watcher pair afterwards.
	snap, err := project.NewScanner(discovery, fileCache).Scan(ctx)
	if err != nil {
		fileCache.Close()
		return nil, fmt.Errorf("initial project scan failed: %w", err)
	}

	index, err := search.NewIndex(snap)
	if err != nil {
		fileCache.Close()
		return nil, err
	}

	fw, err := watcher.New(fileCache)
	if err != nil {
		index.Close()
		fileCache.Close()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.AddTree(root); err != nil {
		log.Printf("watcher: partial tree registration: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"djangolens-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	AddExtractorTools(mcpServer, fileCache)
	AddSymbolSearchTool(mcpServer, index)

	return &Server{
		root:    root,
		cache:   fileCache,
		index:   index,
		watcher: fw,
		mcp:     mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.watcher.Start(ctx)
	defer s.watcher.Stop()
	defer s.index.Close()
	defer s.cache.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio for %s...", s.root)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
