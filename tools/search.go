package tools

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/index"
)

const defaultContextLines = 2

// SearchArgs defines the input parameters for the search tool.
type SearchArgs struct {
	Query        string `json:"query" jsonschema:"Search query. Plain words match any word, quoted text matches an exact phrase, /regex/ is a regular expression"`
	FileGlob     string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter files (e.g. **/*.go)"`
	MaxResults   int    `json:"maxResults,omitempty" jsonschema:"Maximum number of files to return (default 50)"`
	ContextLines int    `json:"contextLines,omitempty" jsonschema:"Number of context lines before and after each match (default 2)"`
}

// SearchHandler searches the contents of the last scan.
type SearchHandler struct {
	Content *index.ContentIndex
	Logger  *slog.Logger
}

// Handle processes a search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if strings.TrimSpace(args.Query) == "" {
		h.Logger.Warn("search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}

	contextLines := args.ContextLines
	if contextLines == 0 {
		contextLines = defaultContextLines
	}

	results, totalMatches, err := h.Content.Search(index.SearchOptions{
		Query:        args.Query,
		FileGlob:     args.FileGlob,
		MaxResults:   args.MaxResults,
		ContextLines: contextLines,
	})
	if err != nil {
		h.Logger.Warn("search failed", "query", args.Query, "error", err)
		return errorResult("Search error: %v", err), nil, nil
	}

	h.Logger.Info("search",
		"query", args.Query,
		"fileGlob", args.FileGlob,
		"files", len(results),
		"matches", totalMatches,
		"elapsed", time.Since(start),
	)

	return textResult(FormatSearchResults(results, totalMatches)), nil, nil
}
