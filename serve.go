package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/index"
	"github.com/lexandro/codecontext/scan"
	"github.com/lexandro/codecontext/server"
	"github.com/lexandro/codecontext/tools"
	"github.com/lexandro/codecontext/watcher"
)

// catalogedProject keeps a catalog of the last scan for the MCP tools.
type catalogedProject struct {
	*project
	catalog *index.Catalog

	// One scan at a time; tools read the catalog concurrently.
	scanMu sync.Mutex
}

// refresh rescans the project and reloads the catalog.
func (c *catalogedProject) refresh(ctx context.Context) (string, *scan.Result, error) {
	c.scanMu.Lock()
	defer c.scanMu.Unlock()

	c.matcher.Reload()
	text, result := c.builder.Build(ctx, c.root, c.scanOptions(nil))
	c.remember(result)
	if err := c.catalog.Load(result); err != nil {
		return "", nil, fmt.Errorf("loading catalog: %w", err)
	}
	return text, result, nil
}

func (c *catalogedProject) rescan(ctx context.Context) (tools.RescanStats, error) {
	start := time.Now()
	_, result, err := c.refresh(ctx)
	if err != nil {
		return tools.RescanStats{}, err
	}
	return tools.RescanStats{
		Files:          result.Processed,
		Unreadable:     result.Failed(),
		TotalSizeBytes: result.TotalSizeBytes(),
		Elapsed:        time.Since(start),
	}, nil
}

func (c *catalogedProject) snapshot(ctx context.Context) (string, error) {
	text, _, err := c.refresh(ctx)
	return text, err
}

// followChanges rescans whenever a relevant batch of changes arrives.
func (c *catalogedProject) followChanges(ctx context.Context, w *watcher.Watcher) {
	for batch := range w.Changes() {
		if !c.affectsSnapshot(batch) {
			continue
		}
		if _, err := c.rescan(ctx); err != nil {
			c.logger.Warn("rescan after change failed", "error", err)
		}
	}
}

func (c *catalogedProject) handlers(startTime time.Time) server.Handlers {
	logger := c.logger
	return server.Handlers{
		Snapshot: &tools.SnapshotHandler{Snapshot: c.snapshot, Logger: logger},
		Files:    &tools.FilesHandler{Files: c.catalog.Files, Logger: logger},
		Search:   &tools.SearchHandler{Content: c.catalog.Content, Logger: logger},
		Read:     &tools.ReadHandler{Content: c.catalog.Content, Logger: logger},
		Status: &tools.StatusHandler{
			Files:     c.catalog.Files,
			Content:   c.catalog.Content,
			RootDir:   c.root,
			StartTime: startTime,
			Logger:    logger,
		},
		Rescan: &tools.RescanHandler{Rescan: c.rescan, Logger: logger},
	}
}

// serve scans once, then answers MCP requests on stdio until ctx is done or
// the client disconnects.
func serve(ctx context.Context, p *project) error {
	startTime := time.Now()

	catalog, err := index.NewCatalog()
	if err != nil {
		return fmt.Errorf("creating catalog: %w", err)
	}
	defer catalog.Close()

	c := &catalogedProject{project: p, catalog: catalog}
	stats, err := c.rescan(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("initial scan complete",
		"root", p.root,
		"files", stats.Files,
		"totalSize", stats.TotalSizeBytes,
		"elapsed", stats.Elapsed,
	)

	w, err := watcher.NewWatcher(p.root, p.matcher, watcher.DefaultQuietPeriod, p.logger)
	if err != nil {
		p.logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
	} else {
		defer w.Close()
		go w.Run(ctx)
		go c.followChanges(ctx, w)
	}

	mcpServer := server.Setup(c.handlers(startTime))

	p.logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}
