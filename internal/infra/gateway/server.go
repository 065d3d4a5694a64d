package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"picgo-mcp/internal/domain"
	"picgo-mcp/internal/infra/telemetry"
	"picgo-mcp/internal/infra/upload"
)

const methodCallTool = "tools/call"

// UploadService runs the upload pipeline for raw tool arguments.
type UploadService interface {
	Upload(ctx context.Context, raw json.RawMessage) (domain.UploadOutcome, error)
}

// Server exposes the upload tool over MCP.
type Server struct {
	server   *mcp.Server
	registry *toolRegistry
	service  UploadService
	logger   *zap.Logger
}

func NewServer(service UploadService, version string, logger *zap.Logger) (*Server, error) {
	if service == nil {
		return nil, errors.New("upload service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: service,
		logger:  logger.Named("gateway"),
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    domain.ServerName,
		Version: version,
	}, &mcp.ServerOptions{
		Instructions: domain.ServerDescription,
		HasTools:     true,
	})
	s.server.AddReceivingMiddleware(s.unknownToolMiddleware())

	s.registry = newToolRegistry(s.server, s.logger)
	if err := s.registry.Register(upload.Tool(), s.uploadHandler()); err != nil {
		return nil, err
	}
	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves a single session on transport until the peer disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("gateway starting", telemetry.ToolField(domain.UploadToolName))
	err := s.server.Run(ctx, transport)
	s.logger.Info("gateway stopped", zap.Error(err))
	return err
}

func (s *Server) uploadHandler() mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("upload handler panic", zap.Any("panic", r))
				result = toolResult(domain.TransportFailure(fmt.Sprint(r)))
				err = nil
			}
		}()

		var args json.RawMessage
		if req != nil && req.Params != nil {
			args = json.RawMessage(req.Params.Arguments)
		}
		outcome, err := s.service.Upload(ctx, args)
		if err != nil {
			return nil, protocolError(err)
		}
		return toolResult(outcome), nil
	}
}

func (s *Server) unknownToolMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method == methodCallTool {
				if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil && !s.registry.Has(call.Params.Name) {
					s.logger.Info("unknown tool requested", telemetry.ToolField(call.Params.Name))
					return nil, protocolError(domain.E(
						domain.CodeMethodNotFound,
						"gateway.call_tool",
						fmt.Sprintf("Unknown tool: %s", call.Params.Name),
						domain.ErrUnknownTool,
					))
				}
			}
			return next(ctx, method, req)
		}
	}
}

func toolResult(outcome domain.UploadOutcome) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: outcome.Text}},
		IsError: outcome.IsError(),
	}
}

func protocolError(err error) error {
	code, ok := domain.CodeFrom(err)
	if !ok {
		code = domain.CodeInternal
	}
	wrapped := domain.Wrap(code, "gateway.call_tool", err)
	return &jsonrpc.Error{
		Code:    domain.ProtocolCode(wrapped.Code),
		Message: domain.MessageFrom(wrapped),
	}
}
