package server

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/codecontext/index"
	"github.com/lexandro/codecontext/tools"
)

func newTestHandlers(t *testing.T) Handlers {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalog, err := index.NewCatalog()
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	return Handlers{
		Snapshot: &tools.SnapshotHandler{
			Snapshot: func(ctx context.Context) (string, error) { return "snapshot text", nil },
			Logger:   logger,
		},
		Files:  &tools.FilesHandler{Files: catalog.Files, Logger: logger},
		Search: &tools.SearchHandler{Content: catalog.Content, Logger: logger},
		Read:   &tools.ReadHandler{Content: catalog.Content, Logger: logger},
		Status: &tools.StatusHandler{Files: catalog.Files, Content: catalog.Content, RootDir: "/p", StartTime: time.Now(), Logger: logger},
		Rescan: &tools.RescanHandler{
			Rescan: func(ctx context.Context) (tools.RescanStats, error) { return tools.RescanStats{}, nil },
			Logger: logger,
		},
	}
}

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := Setup(newTestHandlers(t)).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })
	return clientSession
}

func Test_Setup_RegistersTools(t *testing.T) {
	session := connect(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"files", "read", "rescan", "search", "snapshot", "status"}, names)
}

func Test_Setup_CallSnapshot(t *testing.T) {
	session := connect(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "snapshot",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.False(t, result.IsError)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "snapshot text", text.Text)
}
