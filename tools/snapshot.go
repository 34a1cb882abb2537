package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SnapshotArgs defines the input parameters for the snapshot tool (none).
type SnapshotArgs struct{}

// SnapshotFunc rescans the project and returns the rendered snapshot text.
type SnapshotFunc func(ctx context.Context) (string, error)

// SnapshotHandler holds the dependencies for the snapshot tool.
type SnapshotHandler struct {
	Snapshot SnapshotFunc
	Logger   *slog.Logger
}

// Handle processes a snapshot request.
func (h *SnapshotHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SnapshotArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	text, err := h.Snapshot(ctx)
	if err != nil {
		h.Logger.Error("snapshot failed", "error", err)
		return errorResult("Snapshot error: %v", err), nil, nil
	}

	h.Logger.Info("snapshot", "bytes", len(text), "elapsed", time.Since(start))
	return textResult(text), nil, nil
}
