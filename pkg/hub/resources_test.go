package hub

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestDescribeResources(t *testing.T) {
	resources := []mcp.Resource{
		{URI: "coral://threads", Name: "threads", Description: "Active threads", MIMEType: "application/json"},
		{URI: "coral://agents", Name: ""},
	}

	text := describeResources(resources)
	assert.Contains(t, text, "- threads [coral://threads]: Active threads (application/json)")
	assert.Contains(t, text, "- (unnamed) [coral://agents]")
}

func TestDescribeResourcesEmpty(t *testing.T) {
	assert.Equal(t, "No resources available.", describeResources(nil))
}
