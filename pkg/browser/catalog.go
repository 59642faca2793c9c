package browser

import (
	"fmt"
	"strings"

	"github.com/entrhq/surf/pkg/llm"
)

// Catalog is the read-only set of tools the browser server exposes,
// obtained once at startup.
type Catalog []llm.ToolDef

// Defs returns the catalog as provider tool definitions.
func (c Catalog) Defs() []llm.ToolDef {
	return c
}

// Names returns the tool names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, t := range c {
		names[i] = t.Name
	}
	return names
}

// Has reports whether the catalog contains a tool with the given name.
func (c Catalog) Has(name string) bool {
	for _, t := range c {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Describe renders the catalog for display to the operator and for
// embedding in the system prompt.
func (c Catalog) Describe() string {
	if len(c) == 0 {
		return "No tools available."
	}

	var sb strings.Builder
	for _, t := range c {
		desc := strings.TrimSpace(t.Description)
		if desc == "" {
			desc = "(no description)"
		}
		fmt.Fprintf(&sb, "- %s: %s\n", t.Name, desc)
	}
	return strings.TrimRight(sb.String(), "\n")
}
