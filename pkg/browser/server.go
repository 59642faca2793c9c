// Package browser connects to the external browser automation tool server
// over the MCP stdio transport. The server (by default the Playwright MCP
// server) owns every browser capability; surf only discovers its tool
// catalog at startup and invokes tools opaquely on behalf of the model.
package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/logging"
)

const clientName = "surf"

// Server is a live connection to the browser tool server.
type Server struct {
	client    *client.Client
	catalog   Catalog
	log       *logging.Logger
	closeOnce sync.Once
}

// Connect launches the tool server subprocess described by command (an
// executable followed by its arguments, e.g. "npx @playwright/mcp@latest"),
// performs the MCP handshake, and fetches the tool catalog. The catalog is
// immutable for the life of the process.
func Connect(ctx context.Context, command string, log *logging.Logger) (*Server, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("browser server command is empty")
	}

	mcpClient, err := client.NewStdioMCPClient(fields[0], os.Environ(), fields[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser tool server: %w", err)
	}

	s := &Server{client: mcpClient, log: log}
	if err := s.initialize(ctx); err != nil {
		mcpClient.Close()
		return nil, err
	}

	return s, nil
}

func (s *Server) initialize(ctx context.Context) error {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: clientName, Version: "0.1.0"}

	if _, err := s.client.Initialize(ctx, initReq); err != nil {
		return fmt.Errorf("browser tool server handshake failed: %w", err)
	}

	result, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list browser tools: %w", err)
	}

	s.catalog = make(Catalog, 0, len(result.Tools))
	for _, tool := range result.Tools {
		s.catalog = append(s.catalog, llm.ToolDef{
			Name:        tool.Name,
			Description: tool.Description,
			Schema:      schemaMap(tool),
		})
	}

	s.log.Infof("connected to browser tool server with %d tools", len(s.catalog))
	return nil
}

// Catalog returns the tool catalog obtained at connect time.
func (s *Server) Catalog() Catalog {
	return s.catalog
}

// Invoke calls a tool by name and returns the concatenated text content of
// the result. A tool-level error result comes back as a Go error so the
// caller can feed it to the model as a failure.
func (s *Server) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tool %s failed: %w", name, err)
	}

	text := textFromContent(result.Content)
	if result.IsError {
		return "", fmt.Errorf("tool %s returned an error: %s", name, text)
	}
	return text, nil
}

// Close shuts the subprocess connection down. Safe to call multiple times.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.client.Close()
	})
	return err
}

// textFromContent concatenates the text parts of a tool result.
func textFromContent(content []mcp.Content) string {
	var sb strings.Builder
	for _, c := range content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// schemaMap renders a tool's input schema as the JSON-schema object the
// LLM provider expects.
func schemaMap(tool mcp.Tool) map[string]any {
	schema := map[string]any{"type": "object"}
	if tool.InputSchema.Type != "" {
		schema["type"] = tool.InputSchema.Type
	}
	if len(tool.InputSchema.Properties) > 0 {
		schema["properties"] = tool.InputSchema.Properties
	}
	if len(tool.InputSchema.Required) > 0 {
		schema["required"] = tool.InputSchema.Required
	}
	return schema
}
