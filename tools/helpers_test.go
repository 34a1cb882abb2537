package tools

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/codecontext/index"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func newTestContentIndex(t *testing.T, docs ...index.Document) *index.ContentIndex {
	t.Helper()
	ci, err := index.NewContentIndex()
	require.NoError(t, err)
	t.Cleanup(func() { ci.Close() })
	require.NoError(t, ci.Replace(docs))
	return ci
}

func newTestFileIndex(files ...*index.IndexedFile) *index.FileIndex {
	fi := index.NewFileIndex()
	fi.Replace(files)
	return fi
}

func testFile(relPath, lang string, size int64, lines int) *index.IndexedFile {
	return &index.IndexedFile{
		Path:         "/project/" + relPath,
		RelativePath: relPath,
		Language:     lang,
		SizeBytes:    size,
		ModTime:      time.Now(),
		LineCount:    lines,
	}
}
