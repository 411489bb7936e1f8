package workflow

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
)

const sampleDocument = `{
  "version": "1.0",
  "name": "Daily digest",
  "description": "Summarise and post",
  "trigger": {"type": "cron", "config": {"schedule": "0 9 * * *"}},
  "config": {
    "steps": [
      {"id": "fetch", "module": "utilities.http.get", "inputs": {"url": "https://example.com"}, "outputAs": "page", "x-note": "kept"},
      {"id": 2, "module": "ai.ai-sdk.generateText", "inputs": {"prompt": "{{page}}"}, "outputAs": "summary"}
    ],
    "outputDisplay": {"type": "text"}
  },
  "metadata": {"requiresCredentials": ["openai", 7]},
  "customTopLevel": {"b": 1, "a": 2}
}`

func TestParseAccessors(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "1.0", doc.Version())
	assert.Equal(t, "Daily digest", doc.Name())
	assert.Equal(t, "Summarise and post", doc.Description())

	trigger := doc.Trigger()
	require.NotNil(t, trigger)
	assert.Equal(t, "cron", trigger.Type)
	require.NotNil(t, trigger.Config)

	assert.Equal(t, []string{"openai"}, doc.RequiredCredentials())
	assert.Equal(t, []string{"fetch", "2"}, doc.StepIDs())
	assert.Equal(t, []string{"page", "summary"}, doc.OutputNames())

	steps := doc.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "ai.ai-sdk.generateText", steps[1].Module())
	assert.Equal(t, 1, steps[1].Index())
	require.NotNil(t, steps[0].Inputs())

	assert.True(t, doc.Config().Has(KeyOutputDisplay))
	assert.False(t, doc.Config().Has(KeyReturnValue))
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"config": `},
		{"top level array", `[]`},
		{"missing config", `{"name": "x"}`},
		{"config not object", `{"config": []}`},
		{"missing steps", `{"config": {}}`},
		{"steps not array", `{"config": {"steps": {}}}`},
		{"step not object", `{"config": {"steps": ["a"]}}`},
		{"null step", `{"config": {"steps": [null]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestParsePermissiveSteps(t *testing.T) {
	doc, err := Parse([]byte(`{"config":{"steps":[{},{"module":5,"inputs":"nope"}]}}`))
	require.NoError(t, err)

	steps := doc.Steps()
	assert.Equal(t, "", steps[0].ID())
	assert.Equal(t, "", steps[1].Module())
	assert.Nil(t, steps[1].Inputs())
}

func TestEncodeRoundTripKeepsUnknownFields(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	out, err := doc.Encode(2)
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)

	a, _ := doc.Encode(0)
	b, _ := again.Encode(0)
	assert.Equal(t, string(a), string(b))
	assert.Contains(t, string(out), `"x-note": "kept"`)
	assert.Contains(t, string(out), "\"customTopLevel\": {\n    \"b\": 1,\n    \"a\": 2\n  }")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestCloneIsIndependent(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	clone := doc.Clone()
	clone.Steps()[0].SetModule("changed")

	assert.Equal(t, "utilities.http.get", doc.Steps()[0].Module())
	assert.Equal(t, "changed", clone.Steps()[0].Module())
}
