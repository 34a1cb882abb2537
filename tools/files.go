package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/index"
)

// FilesArgs defines the input parameters for the files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern,omitempty" jsonschema:"Glob pattern matched against project-relative paths (e.g. **/*.py). Empty lists every file"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"If true return only file paths without metadata"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// FilesHandler lists files from the last scan.
type FilesHandler struct {
	Files  *index.FileIndex
	Logger *slog.Logger
}

// Handle processes a files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	files, total, err := h.Files.SearchByGlob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Warn("files failed", "pattern", args.Pattern, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("files",
		"pattern", args.Pattern,
		"results", len(files),
		"total", total,
		"elapsed", time.Since(start),
	)

	return textResult(FormatFileResults(files, total, args.NameOnly)), nil, nil
}
