package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/surf/pkg/llm"
)

func TestNewProviderRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewProvider("")
	assert.Error(t, err)
}

func TestNewProviderDefaults(t *testing.T) {
	p, err := NewProvider("sk-test")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, "sk-test", p.GetAPIKey())
}

func TestProviderOptions(t *testing.T) {
	p, err := NewProvider("sk-test",
		WithModel("gpt-4.1"),
		WithBaseURL("https://openrouter.ai/api/v1"),
		WithTemperature(0.3),
		WithMaxTokens(2048),
	)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", p.GetModel())
	assert.Equal(t, "https://openrouter.ai/api/v1", p.GetBaseURL())
	assert.Equal(t, 0.3, p.temperature)
	assert.Equal(t, int64(2048), p.maxTokens)
}

func TestEmptyOptionsKeepDefaults(t *testing.T) {
	p, err := NewProvider("sk-test", WithModel(""), WithBaseURL(""))
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, p.GetModel())
}

func TestConvertMessagesRoles(t *testing.T) {
	msgs := convertMessages([]llm.Message{
		llm.SystemMessage("you are a web agent"),
		llm.UserMessage("open example.com"),
		{Role: llm.RoleAssistant, Content: "done"},
		llm.ToolMessage("page loaded", "call-1"),
	})

	require.Len(t, msgs, 4)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
	assert.NotNil(t, msgs[3].OfTool)
}

func TestConvertAssistantToolCalls(t *testing.T) {
	msg := convertAssistantMessage(llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{
			{ID: "call-1", Name: "browser_navigate", Arguments: `{"url":"https://example.com"}`},
		},
	})

	require.NotNil(t, msg.OfAssistant)
	require.Len(t, msg.OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call-1", msg.OfAssistant.ToolCalls[0].ID)
	assert.Equal(t, "browser_navigate", msg.OfAssistant.ToolCalls[0].Function.Name)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]llm.ToolDef{
		{
			Name:        "browser_click",
			Description: "Click an element",
			Schema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"selector": map[string]any{"type": "string"}},
			},
		},
	})

	require.Len(t, tools, 1)
	assert.Equal(t, "browser_click", tools[0].Function.Name)
}
