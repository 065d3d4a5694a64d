package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"picgo-mcp/internal/infra/telemetry"
)

type toolRegistry struct {
	server     *mcp.Server
	logger     *zap.Logger
	mu         sync.RWMutex
	registered map[string]struct{}
}

func newToolRegistry(server *mcp.Server, logger *zap.Logger) *toolRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolRegistry{
		server:     server,
		logger:     logger.Named("tool_registry"),
		registered: make(map[string]struct{}),
	}
}

// Register adds a tool to the server. Tools must have a name and an object input schema.
func (r *toolRegistry) Register(tool *mcp.Tool, handler mcp.ToolHandler) error {
	if tool == nil || strings.TrimSpace(tool.Name) == "" {
		return errors.New("tool name is required")
	}
	if handler == nil {
		return fmt.Errorf("tool %q: handler is required", tool.Name)
	}
	if !isObjectSchema(tool.InputSchema) {
		return fmt.Errorf("tool %q: input schema must be an object schema", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.server.AddTool(tool, handler)
	r.registered[tool.Name] = struct{}{}
	r.logger.Debug("tool registered", telemetry.ToolField(tool.Name))
	return nil
}

func (r *toolRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.registered[name]
	return ok
}

func isObjectSchema(schema any) bool {
	if schema == nil {
		return false
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return false
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	if typ, ok := obj["type"]; ok {
		if val, ok := typ.(string); ok {
			return strings.EqualFold(val, "object")
		}
	}
	return false
}
