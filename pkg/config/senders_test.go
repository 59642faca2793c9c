package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyWhitelistAllowsEveryone(t *testing.T) {
	w, err := NewSenderWhitelist(nil)
	require.NoError(t, err)

	assert.True(t, w.Allows("anyone"))
	assert.False(t, w.Allows(""), "empty sender IDs are never allowed")
}

func TestWhitelistGlobMatching(t *testing.T) {
	w, err := NewSenderWhitelist([]string{"planner-*", "ops"})
	require.NoError(t, err)

	assert.True(t, w.Allows("planner-1"))
	assert.True(t, w.Allows("planner-main"))
	assert.True(t, w.Allows("ops"))
	assert.False(t, w.Allows("ops-2"))
	assert.False(t, w.Allows("intruder"))
}

func TestWhitelistInvalidPattern(t *testing.T) {
	_, err := NewSenderWhitelist([]string{"[unclosed"})
	assert.Error(t, err)
}
