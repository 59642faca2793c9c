package hub

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// describeResources renders the hub's resource listing as one line per
// resource for the session log.
func describeResources(resources []mcp.Resource) string {
	if len(resources) == 0 {
		return "No resources available."
	}

	var sb strings.Builder
	for _, r := range resources {
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&sb, "- %s [%s]", name, r.URI)
		if r.Description != "" {
			fmt.Fprintf(&sb, ": %s", r.Description)
		}
		if r.MIMEType != "" {
			fmt.Fprintf(&sb, " (%s)", r.MIMEType)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
