// Package hub speaks to the multi-agent coordination server that routes
// mentions between agents. The hub is an MCP server over a streamed HTTP
// (SSE) transport, addressed by a base URL plus this agent's identity; it
// exposes wait_for_mentions and send_message tools and a resource listing
// the client surfaces for observability.
package hub

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/entrhq/surf/pkg/logging"
)

// Hub tool names.
const (
	toolWaitForMentions = "wait_for_mentions"
	toolSendMessage     = "send_message"
)

// Client is a live connection to the coordination hub.
type Client struct {
	mcp       *client.Client
	agentID   string
	log       *logging.Logger
	closeOnce sync.Once
}

// Connect dials the hub's SSE endpoint, identifying this agent via query
// parameters, and performs the MCP handshake.
func Connect(ctx context.Context, baseURL, agentID, agentDesc string, log *logging.Logger) (*Client, error) {
	endpoint, err := serverURL(baseURL, agentID, agentDesc)
	if err != nil {
		return nil, err
	}

	log.Infof("connecting to coordination hub: %s", endpoint)

	mcpClient, err := client.NewSSEMCPClient(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create hub client: %w", err)
	}

	c := &Client{mcp: mcpClient, agentID: agentID, log: log}
	if err := c.initialize(ctx); err != nil {
		mcpClient.Close()
		return nil, err
	}

	return c, nil
}

// serverURL appends the agent identity to the hub base URL.
func serverURL(baseURL, agentID, agentDesc string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid hub URL %q: %w", baseURL, err)
	}

	params := u.Query()
	params.Set("agentId", agentID)
	params.Set("agentDescription", agentDesc)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (c *Client) initialize(ctx context.Context) error {
	if err := c.mcp.Start(ctx); err != nil {
		return fmt.Errorf("failed to open hub stream: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: c.agentID, Version: "0.1.0"}

	if _, err := c.mcp.Initialize(ctx, initReq); err != nil {
		return fmt.Errorf("hub handshake failed: %w", err)
	}

	tools, err := c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list hub tools: %w", err)
	}

	names := make([]string, 0, len(tools.Tools))
	for _, t := range tools.Tools {
		names = append(names, t.Name)
	}
	c.log.Infof("hub tools available: %s", strings.Join(names, ", "))

	return nil
}

// AgentID returns the identity this client registered with.
func (c *Client) AgentID() string {
	return c.agentID
}

// WaitForMentions blocks on the hub until a mention addressed to this
// agent arrives or the hub-side timeout elapses. The raw text response is
// returned for parsing; "No new messages" is a normal outcome.
func (c *Client) WaitForMentions(ctx context.Context, timeout time.Duration) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = toolWaitForMentions
	req.Params.Arguments = map[string]any{
		"timeoutMs": timeout.Milliseconds(),
	}

	result, err := c.mcp.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("wait_for_mentions failed: %w", err)
	}

	return textFromContent(result.Content), nil
}

// SendMessage posts a reply into a thread, mentioning the given agents.
func (c *Client) SendMessage(ctx context.Context, threadID, content string, mentions []string) error {
	req := mcp.CallToolRequest{}
	req.Params.Name = toolSendMessage
	req.Params.Arguments = map[string]any{
		"threadId": threadID,
		"content":  content,
		"mentions": mentions,
	}

	if _, err := c.mcp.CallTool(ctx, req); err != nil {
		return fmt.Errorf("send_message failed: %w", err)
	}

	c.log.Infof("sent message to thread %s mentioning %s", threadID, strings.Join(mentions, ", "))
	return nil
}

// ResourceSummary lists the hub's resources and renders them for logging.
// The core never acts on this; it is kept purely for observability.
func (c *Client) ResourceSummary(ctx context.Context) (string, error) {
	result, err := c.mcp.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to list hub resources: %w", err)
	}

	return describeResources(result.Resources), nil
}

// Close tears the hub connection down. Safe to call multiple times.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.mcp.Close()
	})
	return err
}

// textFromContent concatenates the text parts of a tool result.
func textFromContent(content []mcp.Content) string {
	var sb strings.Builder
	for _, part := range content {
		if tc, ok := part.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
