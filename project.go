package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lexandro/codecontext/config"
	"github.com/lexandro/codecontext/console"
	"github.com/lexandro/codecontext/gitinfo"
	"github.com/lexandro/codecontext/ignore"
	"github.com/lexandro/codecontext/scan"
	"github.com/lexandro/codecontext/snapshot"
)

// project is one scan root together with everything needed to snapshot it.
type project struct {
	root       string
	output     string // as given by the user, for console messages
	outputPath string // absolute, excluded from the scan
	cfg        *config.ScanConfig
	matcher    *ignore.Matcher
	builder    *snapshot.Builder
	logger     *slog.Logger

	// Sorted absolute paths of the files in the last snapshot.
	lastMu    sync.Mutex
	lastPaths []string
}

func newProject(dir string, output string, cfg *config.ScanConfig, logger *slog.Logger) (*project, error) {
	root := scan.ResolveRoot(dir)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logger.Warn("scan root is not a readable directory, the snapshot will be empty", "root", root)
	}

	outputPath, err := filepath.Abs(output)
	if err != nil {
		return nil, fmt.Errorf("resolving output path: %w", err)
	}

	return &project{
		root:       root,
		output:     output,
		outputPath: outputPath,
		cfg:        cfg,
		matcher: ignore.NewMatcher(ignore.MatcherOptions{
			RootDir:      root,
			Config:       cfg,
			ExcludeFiles: []string{outputPath},
		}),
		builder: &snapshot.Builder{Collector: gitinfo.NewCollector(logger)},
		logger:  logger,
	}, nil
}

func (p *project) scanOptions(onEntry func(scan.Entry)) scan.Options {
	return scan.Options{
		Config:  p.cfg,
		Matcher: p.matcher,
		OnEntry: onEntry,
		Logger:  p.logger,
	}
}

// writeSnapshot scans the project and replaces the output file, reporting
// progress on printer. A failed write is printed before it is returned.
func (p *project) writeSnapshot(ctx context.Context, printer *console.Printer) (*scan.Result, error) {
	printer.ScanStarted(p.root, p.cfg.Extensions())

	text, result := p.builder.Build(ctx, p.root, p.scanOptions(printer.FileProcessed))
	p.remember(result)
	printer.Summary(result)

	if err := snapshot.WriteFile(p.outputPath, text); err != nil {
		printer.WriteFailed(err)
		return result, &reportedError{err: fmt.Errorf("writing snapshot: %w", err)}
	}

	p.logger.Info("snapshot written",
		"output", p.outputPath,
		"files", result.Processed,
		"unreadable", result.Failed(),
		"bytes", len(text),
	)
	printer.Saved(p.output)
	return result, nil
}

// remember records which files result put into the snapshot.
func (p *project) remember(result *scan.Result) {
	paths := make([]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		paths = append(paths, entry.Path)
	}
	sort.Strings(paths)

	p.lastMu.Lock()
	p.lastPaths = paths
	p.lastMu.Unlock()
}

// heldSnapshotFiles reports whether dir contained files of the last
// snapshot. It answers for directories that were removed or moved away,
// whose contents produce no events of their own.
func (p *project) heldSnapshotFiles(dir string) bool {
	prefix := strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)

	p.lastMu.Lock()
	defer p.lastMu.Unlock()
	i := sort.SearchStrings(p.lastPaths, prefix)
	return i < len(p.lastPaths) && strings.HasPrefix(p.lastPaths[i], prefix)
}
