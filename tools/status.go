package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/index"
)

// StatusArgs defines the input parameters for the status tool (none).
type StatusArgs struct{}

// StatusHandler reports what the last scan captured.
type StatusHandler struct {
	Files     *index.FileIndex
	Content   *index.ContentIndex
	RootDir   string
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	fileCount := h.Files.FileCount()
	totalSize := h.Files.TotalSizeBytes()
	uptime := time.Since(h.StartTime)

	h.Logger.Info("status", "files", fileCount, "totalSize", totalSize, "uptime", uptime)

	var builder strings.Builder
	builder.WriteString("=== codecontext status ===\n\n")
	fmt.Fprintf(&builder, "Root directory: %s\n", h.RootDir)
	fmt.Fprintf(&builder, "Uptime: %s\n", formatDuration(uptime))
	fmt.Fprintf(&builder, "Scanned files: %d\n", fileCount)
	fmt.Fprintf(&builder, "Searchable documents: %d\n", h.Content.DocumentCount())
	fmt.Fprintf(&builder, "Total size: %s\n", formatFileSize(totalSize))

	if counts := h.Files.LanguageCounts(); len(counts) > 0 {
		builder.WriteString("\nLanguages:\n")
		builder.WriteString(FormatLanguageCounts(counts))
	}

	return textResult(builder.String()), nil, nil
}

// formatDuration formats a duration as 42s, 3m5s or 2h10m.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, totalSeconds%60)
	}
	return fmt.Sprintf("%dh%dm", totalMinutes/60, totalMinutes%60)
}
