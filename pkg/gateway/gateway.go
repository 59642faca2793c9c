// Package gateway is the reasoning engine boundary: it turns one request
// plus formatted history into one textual answer by driving the LLM's
// tool-calling loop against the browser tool server. From the queue's
// perspective the whole exchange is a single opaque call.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/llm/parser"
	"github.com/entrhq/surf/pkg/logging"
)

// defaultMaxTurns caps the tool-calling loop for a single request.
const defaultMaxTurns = 16

// ToolRunner executes one catalog tool. *browser.Server implements it.
type ToolRunner interface {
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)
}

// Engine answers requests by alternating model completions with tool
// executions until the model produces a final text answer.
type Engine struct {
	provider llm.Provider
	runner   ToolRunner
	catalog  browser.Catalog
	timeout  time.Duration
	maxTurns int
	log      *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxTurns overrides the tool-loop cap.
func WithMaxTurns(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

// New creates an engine. timeout bounds one whole request (all turns);
// zero means no per-request deadline.
func New(provider llm.Provider, runner ToolRunner, catalog browser.Catalog, timeout time.Duration, log *logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		provider: provider,
		runner:   runner,
		catalog:  catalog,
		timeout:  timeout,
		maxTurns: defaultMaxTurns,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer runs the tool-calling loop for one request. Tool failures are
// fed back to the model as tool results so it can retry or report them;
// only model/transport failures and turn exhaustion surface as errors.
func (e *Engine) Answer(ctx context.Context, query, historyText string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	messages := []llm.Message{
		llm.SystemMessage(systemPrompt(e.catalog.Describe(), historyText)),
		llm.UserMessage(query),
	}

	for turn := 0; turn < e.maxTurns; turn++ {
		msg, err := e.provider.Complete(ctx, llm.CompletionRequest{
			Messages: messages,
			Tools:    e.catalog.Defs(),
		})
		if err != nil {
			return "", fmt.Errorf("model call failed: %w", err)
		}

		if len(msg.ToolCalls) == 0 {
			return parser.StripThinking(msg.Content), nil
		}

		messages = append(messages, *msg)
		for _, call := range msg.ToolCalls {
			result := e.executeCall(ctx, call)
			messages = append(messages, llm.ToolMessage(result, call.ID))
		}
	}

	return "", fmt.Errorf("no final answer after %d tool turns", e.maxTurns)
}

// executeCall runs one tool call and renders its outcome as result text.
func (e *Engine) executeCall(ctx context.Context, call llm.ToolCall) string {
	e.log.Infof("tool call: %s", call.Name)
	e.log.Debugf("tool call %s arguments: %s", call.Name, call.Arguments)

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			e.log.Warnf("tool %s received malformed arguments: %v", call.Name, err)
			return fmt.Sprintf("invalid tool arguments: %v", err)
		}
	}

	result, err := e.runner.Invoke(ctx, call.Name, args)
	if err != nil {
		e.log.Warnf("tool %s failed: %v", call.Name, err)
		return fmt.Sprintf("tool error: %v", err)
	}
	return result
}
