// Package server exposes a scanned project over MCP.
package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/codecontext/tools"
)

// Name and Version identify the server to MCP clients.
const (
	Name    = "codecontext"
	Version = "0.1.0"
)

// Handlers groups the tool handlers the server registers.
type Handlers struct {
	Snapshot *tools.SnapshotHandler
	Files    *tools.FilesHandler
	Search   *tools.SearchHandler
	Read     *tools.ReadHandler
	Status   *tools.StatusHandler
	Rescan   *tools.RescanHandler
}

// Setup creates the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    Name,
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server serves a text snapshot of one project directory: every source file that passes the extension and skip filters, concatenated with a header carrying the scan time and git metadata.

- Use snapshot to get the whole project as one document (this rescans first)
- Use files to list scanned files by glob, search to find lines, read to fetch one file
- files, search, read and status answer from the last scan, which follows file changes automatically; rescan forces a rebuild`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "snapshot",
		Description: "Rescan the project and return the full snapshot: header, git metadata, and every qualifying file under a '# File: <path>' heading.",
	}, handlers.Snapshot.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "files",
		Description: `List scanned files by glob pattern, with language, size and line count.

Pattern examples:
  - "**/*.py" - all Python files
  - "src/**/*.ts" - TypeScript files under src/
  - "*.md" - Markdown files in the root only
  - "" - every scanned file`,
	}, handlers.Files.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "search",
		Description: `Search the contents of scanned files.

Query formats:
  - Plain words: lines containing any of the words (e.g., "handleRequest")
  - "quoted text": exact phrase (e.g., "\"def main\"")
  - /regex/: Go regular expression per line (e.g., "/func\s+\w+Handler/")

fileGlob narrows the search to matching paths (e.g., "**/*.go").`,
	}, handlers.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "read",
		Description: `Return one scanned file with numbered lines (format: "N: content"). Supports offset and limit.`,
	}, handlers.Read.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "status",
		Description: "Show the root directory, scanned file count, total size, language breakdown and uptime.",
	}, handlers.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "rescan",
		Description: "Rescan the project and rebuild the file list and search index. Reports file count and size.",
	}, handlers.Rescan.Handle)

	return mcpServer
}
