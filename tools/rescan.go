package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RescanArgs defines the input parameters for the rescan tool (none).
type RescanArgs struct{}

// RescanStats summarizes a completed rescan.
type RescanStats struct {
	Files          int
	Unreadable     int
	TotalSizeBytes int64
	Elapsed        time.Duration
}

// RescanFunc rebuilds the file catalog and content index. It is provided by
// the caller so this package does not depend on the scanner.
type RescanFunc func(ctx context.Context) (RescanStats, error)

// RescanHandler holds the dependencies for the rescan tool.
type RescanHandler struct {
	Rescan RescanFunc
	Logger *slog.Logger
}

// Handle processes a rescan request.
func (h *RescanHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RescanArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("rescan started")

	stats, err := h.Rescan(ctx)
	if err != nil {
		h.Logger.Error("rescan failed", "error", err)
		return errorResult("Rescan error: %v", err), nil, nil
	}

	h.Logger.Info("rescan complete",
		"files", stats.Files,
		"unreadable", stats.Unreadable,
		"totalSize", stats.TotalSizeBytes,
		"elapsed", stats.Elapsed,
	)

	output := fmt.Sprintf("rescanned: %d files (%s) in %s",
		stats.Files, formatFileSize(stats.TotalSizeBytes), stats.Elapsed.Round(time.Millisecond))
	if stats.Unreadable > 0 {
		output += fmt.Sprintf(", %d unreadable", stats.Unreadable)
	}
	return textResult(output), nil, nil
}
