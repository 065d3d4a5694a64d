package gateway

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToolRegistry_RegisterAddsTool(t *testing.T) {
	ctx := context.Background()
	server := mcp.NewServer(&mcp.Implementation{Name: "gateway", Version: "0.1.0"}, &mcp.ServerOptions{HasTools: true})
	registry := newToolRegistry(server, zap.NewNop())

	err := registry.Register(&mcp.Tool{
		Name:        "echo",
		Description: "echo input",
		InputSchema: map[string]any{"type": "object"},
	}, echoHandler("echo"))
	require.NoError(t, err)
	require.True(t, registry.Has("echo"))
	require.False(t, registry.Has("other"))

	session := connectClient(t, ctx, server)

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	require.Equal(t, "echo", res.Tools[0].Name)
}

func TestToolRegistry_RegisterRejectsInvalidTools(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "gateway", Version: "0.1.0"}, &mcp.ServerOptions{HasTools: true})
	registry := newToolRegistry(server, nil)

	tests := []struct {
		name    string
		tool    *mcp.Tool
		handler mcp.ToolHandler
	}{
		{name: "nil tool", tool: nil, handler: echoHandler("x")},
		{name: "empty name", tool: &mcp.Tool{InputSchema: map[string]any{"type": "object"}}, handler: echoHandler("x")},
		{name: "missing schema", tool: &mcp.Tool{Name: "x"}, handler: echoHandler("x")},
		{name: "array schema", tool: &mcp.Tool{Name: "x", InputSchema: map[string]any{"type": "array"}}, handler: echoHandler("x")},
		{name: "missing handler", tool: &mcp.Tool{Name: "x", InputSchema: map[string]any{"type": "object"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, registry.Register(tt.tool, tt.handler))
			require.False(t, registry.Has("x"))
		})
	}
}

func echoHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: name}},
		}, nil
	}
}

func connectClient(t *testing.T, ctx context.Context, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ct, st := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
