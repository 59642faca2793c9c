package gateway

import (
	"fmt"
)

// systemPromptTemplate frames every request. The tool catalog and the
// rolling conversation history are embedded so the model can plan browser
// actions and stay consistent with earlier exchanges.
const systemPromptTemplate = `You are a web agent. You complete browsing tasks by calling the browser tools available to you, then report the outcome as plain text.

Guidelines:
- Use the tools to navigate, inspect, and interact with pages; never invent page content.
- When the task is complete, reply with a concise final answer describing what you found or did.
- If a tool fails repeatedly, report the failure instead of guessing.

Available tools:
%s

Recent conversation history:
%s`

// systemPrompt renders the system message for one request.
func systemPrompt(toolsDescription, historyText string) string {
	return fmt.Sprintf(systemPromptTemplate, toolsDescription, historyText)
}
