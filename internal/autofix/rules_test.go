package autofix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// docWithSteps builds a minimal document from raw step objects
func docWithSteps(t *testing.T, steps ...string) *workflow.Document {
	t.Helper()
	doc, err := workflow.Parse([]byte(`{"config":{"steps":[` + strings.Join(steps, ",") + `]}}`))
	require.NoError(t, err)
	return doc
}

func applyRule(t *testing.T, r Rule, doc *workflow.Document) []Fix {
	t.Helper()
	env := &Env{Tables: DefaultTables(), Ledger: NewLedger()}
	r.Apply(doc, env)
	for _, f := range env.Ledger.Fixes() {
		assert.Contains(t, r.Types(), f.Type)
	}
	return env.Ledger.Fixes()
}

func inputsOf(doc *workflow.Document, i int) string {
	return jsonutil.MarshalString(doc.Steps()[i].Inputs())
}

func TestAIOptionsWrapper(t *testing.T) {
	tests := []struct {
		name   string
		step   string
		inputs string
		fixed  bool
	}{
		{
			name:   "flat prompt is wrapped",
			step:   `{"id":"a","module":"ai.ai-sdk.generateText","inputs":{"prompt":"hi","model":"gpt-4o"}}`,
			inputs: `{"options":{"prompt":"hi","model":"gpt-4o"}}`,
			fixed:  true,
		},
		{
			name:   "messages trigger wrapping",
			step:   `{"id":"a","module":"ai.ai-sdk.chat","inputs":{"messages":[{"role":"user","content":"x"}]}}`,
			inputs: `{"options":{"messages":[{"role":"user","content":"x"}]}}`,
			fixed:  true,
		},
		{
			name:   "miscased module still matches",
			step:   `{"id":"a","module":"AI.AI-SDK.generatetext","inputs":{"prompt":"hi"}}`,
			inputs: `{"options":{"prompt":"hi"}}`,
			fixed:  true,
		},
		{
			name:   "already wrapped",
			step:   `{"id":"a","module":"ai.ai-sdk.generateText","inputs":{"options":{"prompt":"hi"}}}`,
			inputs: `{"options":{"prompt":"hi"}}`,
		},
		{
			name:   "empty prompt is not a prompt",
			step:   `{"id":"a","module":"ai.ai-sdk.generateText","inputs":{"prompt":""}}`,
			inputs: `{"prompt":""}`,
		},
		{
			name:   "other modules are ignored",
			step:   `{"id":"a","module":"utilities.string-utils.toSlug","inputs":{"prompt":"hi"}}`,
			inputs: `{"prompt":"hi"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docWithSteps(t, tt.step)
			fixes := applyRule(t, aiOptionsWrapper{}, doc)

			assert.Equal(t, tt.inputs, inputsOf(doc, 0))
			if !tt.fixed {
				assert.Empty(t, fixes)
				return
			}
			require.Len(t, fixes, 1)
			assert.Equal(t, "a", fixes[0].StepID)
			assert.Equal(t, FixAIOptionsWrapper, fixes[0].Type)
			assert.Equal(t, tt.inputs, fixes[0].After)
		})
	}
}

func TestAIMinTokens(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"low","module":"ai.ai-sdk.generateText","inputs":{"options":{"prompt":"hi","maxTokens":5}}}`,
		`{"id":"fraction","module":"ai.ai-sdk.generateText","inputs":{"options":{"maxTokens":15.5}}}`,
		`{"id":"ok","module":"ai.ai-sdk.generateText","inputs":{"options":{"maxTokens":16}}}`,
		`{"id":"text","module":"ai.ai-sdk.generateText","inputs":{"options":{"maxTokens":"5"}}}`,
	)

	fixes := applyRule(t, aiMinTokens{}, doc)

	require.Len(t, fixes, 2)
	assert.Equal(t, `{"options":{"prompt":"hi","maxTokens":20}}`, inputsOf(doc, 0))
	assert.Equal(t, "Increased maxTokens from 5 to 20 (OpenAI minimum is 16)", fixes[0].Description)
	assert.Equal(t, `{"options":{"prompt":"hi","maxTokens":5}}`, fixes[0].Before)

	assert.Equal(t, "fraction", fixes[1].StepID)
	assert.Equal(t, "Increased maxTokens from 15.5 to 20 (OpenAI minimum is 16)", fixes[1].Description)

	assert.Equal(t, `{"options":{"maxTokens":16}}`, inputsOf(doc, 2))
	assert.Equal(t, `{"options":{"maxTokens":"5"}}`, inputsOf(doc, 3))
}

func TestAIContentAccess(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"gen","module":"ai.ai-sdk.generateText","inputs":{"options":{"prompt":"x"}},"outputAs":"summary"}`,
		`{"id":"fetch","module":"utilities.http.get","inputs":{},"outputAs":"page"}`,
		`{"id":"slug","module":"utilities.string-utils.toSlug","inputs":{"text":"{{summary}} and {{ summary }}","n":["{{summary}}"],"field":"{{summary}}.text"}}`,
		`{"id":"done","module":"utilities.string-utils.toSlug","inputs":{"text":"{{summary.content}} {{page}}"}}`,
		`{"id":"other","module":"utilities.json-transform.get","inputs":{"text":"{{summary}}"}}`,
	)

	fixes := applyRule(t, aiContentAccess{}, doc)

	require.Len(t, fixes, 1)
	assert.Equal(t, "slug", fixes[0].StepID)
	assert.Equal(t, "Added .content to AI SDK variable references", fixes[0].Description)
	assert.Equal(t, `{"text":"{{summary.content}} and {{summary.content}}","n":["{{summary.content}}"],"field":"{{summary}}.text"}`, inputsOf(doc, 2))
	assert.Equal(t, `{"text":"{{summary.content}} {{page}}"}`, inputsOf(doc, 3))
	assert.Equal(t, `{"text":"{{summary}}"}`, inputsOf(doc, 4))
}

func TestAIContentAccessWithoutAIOutputs(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"slug","module":"utilities.string-utils.toSlug","inputs":{"text":"{{summary}}"}}`,
	)
	assert.Empty(t, applyRule(t, aiContentAccess{}, doc))
}

func TestZipFieldArrays(t *testing.T) {
	tests := []struct {
		name   string
		inputs string
		want   string
		fixes  int
	}{
		{
			name:   "string broadcast to first array length",
			inputs: `{"fieldArrays":{"name":["a","b","c"],"tag":"x"}}`,
			want:   `{"fieldArrays":{"name":["a","b","c"],"tag":["x","x","x"]}}`,
			fixes:  1,
		},
		{
			name:   "string before the first array",
			inputs: `{"fieldArrays":{"tag":"x","name":["a","b"],"kind":"k"}}`,
			want:   `{"fieldArrays":{"tag":["x","x"],"name":["a","b"],"kind":["k","k"]}}`,
			fixes:  2,
		},
		{
			name:   "no array field",
			inputs: `{"fieldArrays":{"tag":"x"}}`,
			want:   `{"fieldArrays":{"tag":"x"}}`,
		},
		{
			name:   "empty first array",
			inputs: `{"fieldArrays":{"name":[],"tag":"x"}}`,
			want:   `{"fieldArrays":{"name":[],"tag":"x"}}`,
		},
		{
			name:   "malformed fieldArrays",
			inputs: `{"fieldArrays":"oops"}`,
			want:   `{"fieldArrays":"oops"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docWithSteps(t, `{"id":"zip","module":"utilities.array-utils.zipToObjects","inputs":`+tt.inputs+`}`)
			fixes := applyRule(t, zipFieldArrays{}, doc)

			assert.Equal(t, tt.want, inputsOf(doc, 0))
			assert.Len(t, fixes, tt.fixes)
		})
	}
}

func TestZipFieldArraysSnapshot(t *testing.T) {
	doc := docWithSteps(t, `{"id":"zip","module":"utilities.array-utils.zipToObjects","inputs":{"fieldArrays":{"name":["a","b","c"],"tag":"x"}}}`)
	fixes := applyRule(t, zipFieldArrays{}, doc)

	require.Len(t, fixes, 1)
	assert.Equal(t, `{"tag":"x"}`, fixes[0].Before)
	assert.Equal(t, `{"tag":["x","x","x"]}`, fixes[0].After)
	assert.Equal(t, `Converted string field "tag" to array of length 3`, fixes[0].Description)
}

func TestArrayParamShape(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"u","module":"utilities.array-utils.union","inputs":{"arr1":[1,2],"arr2":[3,4]}}`,
		`{"id":"i","module":"utilities.array-utils.intersection","inputs":{"array1":[1],"arr2":[2],"unique":true}}`,
		`{"id":"d","module":"utilities.array-utils.difference","inputs":{"arrays":[[1,2],[3,4]]}}`,
		`{"id":"short","module":"utilities.array-utils.difference","inputs":{"arrays":[[1,2]]}}`,
		`{"id":"has","module":"utilities.array-utils.union","inputs":{"arrays":[[1]],"arr1":[1],"arr2":[2]}}`,
	)

	fixes := applyRule(t, arrayParamShape{}, doc)

	assert.Equal(t, `{"arrays":[[1,2],[3,4]]}`, inputsOf(doc, 0))
	assert.Equal(t, `{"unique":true,"arrays":[[1],[2]]}`, inputsOf(doc, 1))
	assert.Equal(t, `{"arr1":[1,2],"arr2":[3,4]}`, inputsOf(doc, 2))
	assert.Equal(t, `{"arrays":[[1,2]]}`, inputsOf(doc, 3))
	assert.Equal(t, `{"arrays":[[1]],"arr1":[1],"arr2":[2]}`, inputsOf(doc, 4))

	require.Len(t, fixes, 3)
	assert.Equal(t, FixArrayRestParams, fixes[0].Type)
	assert.Equal(t, "Converted arr1/arr2 to arrays parameter for utilities.array-utils.union", fixes[0].Description)
	assert.Equal(t, FixArrayRestParams, fixes[1].Type)
	assert.Equal(t, FixArraySeparateParams, fixes[2].Type)
	assert.Equal(t, "d", fixes[2].StepID)
}

func TestArrParamRename(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"p","module":"utilities.array-utils.pluck","inputs":{"array":[{"a":1}],"key":"a"}}`,
		`{"id":"both","module":"utilities.array-utils.sortBy","inputs":{"array":[1],"arr":[2]}}`,
		`{"id":"other","module":"utilities.array-utils.chunk","inputs":{"array":[1]}}`,
	)

	fixes := applyRule(t, arrParamRename{}, doc)

	require.Len(t, fixes, 1)
	assert.Equal(t, `{"key":"a","arr":[{"a":1}]}`, inputsOf(doc, 0))
	assert.Equal(t, "Renamed 'array' parameter to 'arr' for utilities.array-utils.pluck", fixes[0].Description)
	assert.Equal(t, `{"array":[1],"arr":[2]}`, inputsOf(doc, 1))
	assert.Equal(t, `{"array":[1]}`, inputsOf(doc, 2))
}

func TestReturnValueLocation(t *testing.T) {
	doc, err := workflow.Parse([]byte(`{"config":{"steps":[],"outputDisplay":{"type":"table","returnValue":"{{rows}}"}}}`))
	require.NoError(t, err)

	fixes := applyRule(t, returnValueLocation{}, doc)

	require.Len(t, fixes, 1)
	assert.Equal(t, ConfigStepID, fixes[0].StepID)
	assert.Equal(t, `outputDisplay.returnValue = "{{rows}}"`, fixes[0].Before)
	assert.Equal(t, `config.returnValue = "{{rows}}"`, fixes[0].After)
	assert.Equal(t, `{"steps":[],"outputDisplay":{"type":"table"},"returnValue":"{{rows}}"}`, jsonutil.MarshalString(doc.Config()))

	assert.Empty(t, applyRule(t, returnValueLocation{}, doc))
}

func TestVariableNameTypos(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"a","module":"utilities.http.get","inputs":{},"outputAs":"My Result"}`,
		`{"id":"b","module":"utilities.json-transform.get","inputs":{"obj":"{{myresult.value}}","again":"{{MYRESULT}} {{My Result}}","t":"{{trigger.myresult}}"}}`,
	)

	fixes := applyRule(t, variableNameTypos{}, doc)

	assert.Equal(t, `{"obj":"{{My Result.value}}","again":"{{My Result}} {{My Result}}","t":"{{trigger.myresult}}"}`, inputsOf(doc, 1))

	require.Len(t, fixes, 2)
	assert.Equal(t, "{{myresult.value}}", fixes[0].Before)
	assert.Equal(t, "{{My Result.value}}", fixes[0].After)
	assert.Equal(t, `Fixed variable name: "myresult" -> "My Result"`, fixes[0].Description)
	assert.Equal(t, "{{MYRESULT}}", fixes[1].Before)
	assert.Equal(t, "b", fixes[1].StepID)
}

func TestVariableNameTyposLeavesTriggerAlone(t *testing.T) {
	doc := docWithSteps(t,
		`{"id":"a","module":"utilities.http.get","inputs":{},"outputAs":"Trigger"}`,
		`{"id":"b","module":"utilities.json-transform.get","inputs":{"x":"{{trigger}}","y":"{{ trigger.body }}","z":"{{TRIGGER}}"}}`,
	)

	fixes := applyRule(t, variableNameTypos{}, doc)

	assert.Equal(t, `{"x":"{{trigger}}","y":"{{ trigger.body }}","z":"{{Trigger}}"}`, inputsOf(doc, 1))
	require.Len(t, fixes, 1)
	assert.Equal(t, "{{TRIGGER}}", fixes[0].Before)
}

func TestModulePathCase(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{"AI.AI-SDK.generatetext", "ai.ai-sdk.generateText"},
		{"Utilities.String-Utils.toSlug", "utilities.string-utils.toSlug"},
		{"utilities.json-transform.cloneDeep", "utilities.json-transform.deepClone"},
		{"utilities.custom.myFunction", "utilities.custom.myFunction"},
		{"Two.Segments", "Two.Segments"},
		{"a.b.c.d", "a.b.c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			doc := docWithSteps(t, `{"id":"s","module":"`+tt.module+`"}`)
			fixes := applyRule(t, modulePathCase{}, doc)

			assert.Equal(t, tt.want, doc.Steps()[0].Module())
			if tt.want == tt.module {
				assert.Empty(t, fixes)
				return
			}
			require.Len(t, fixes, 1)
			assert.Equal(t, tt.module, fixes[0].Before)
			assert.Equal(t, tt.want, fixes[0].After)
		})
	}
}
