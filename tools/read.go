package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/index"
)

// ReadArgs defines the input parameters for the read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Project-relative path of a scanned file (e.g. src/main.py)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"First line to return, 1-based (default 1)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of lines to return (default all)"`
}

// ReadHandler returns the content of one file as captured by the last scan.
type ReadHandler struct {
	Content *index.ContentIndex
	Logger  *slog.Logger
}

// Handle processes a read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	if args.FilePath == "" {
		h.Logger.Warn("read called with empty filePath")
		return errorResult("Error: filePath parameter is required"), nil, nil
	}

	content, ok := h.Content.GetFileContent(args.FilePath)
	if !ok {
		h.Logger.Info("read: file not in last scan", "filePath", args.FilePath)
		return errorResult("File not found in last scan: %s", args.FilePath), nil, nil
	}

	h.Logger.Info("read", "filePath", args.FilePath, "offset", args.Offset, "limit", args.Limit)
	return textResult(FormatFileContent(content, args.Offset, args.Limit)), nil, nil
}
