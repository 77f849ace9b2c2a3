package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONPlain(t *testing.T) {
	var cmd Command
	require.NoError(t, DecodeJSON(`{"kind":"click","target":"Sign In"}`, &cmd))
	assert.Equal(t, "click", cmd.Kind)
	assert.Equal(t, "Sign In", cmd.Target)
}

func TestDecodeJSONStripsCodeFence(t *testing.T) {
	payload := "```json\n{\"kind\":\"navigate\",\"target\":\"https://x.com\"}\n```"
	var cmd Command
	require.NoError(t, DecodeJSON(payload, &cmd))
	assert.Equal(t, "navigate", cmd.Kind)
}

func TestDecodeJSONStripsLeadingProse(t *testing.T) {
	payload := `Here is the plan: {"appOverview":"a store","prioritizedPages":[]}`
	var plan ExplorationPlan
	require.NoError(t, DecodeJSON(payload, &plan))
	assert.Equal(t, "a store", plan.AppOverview)
}

func TestDecodeJSONRepairsTrailingComma(t *testing.T) {
	payload := `{"kind":"fill","target":"email","value":"x@y.com",}`
	var cmd Command
	require.NoError(t, DecodeJSON(payload, &cmd))
	assert.Equal(t, "fill", cmd.Kind)
	assert.Equal(t, "x@y.com", cmd.Value)
}

func TestDecodeJSONFailsOnGarbage(t *testing.T) {
	var cmd Command
	assert.Error(t, DecodeJSON("this is not json at all", &cmd))
}
