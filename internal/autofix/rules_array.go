package autofix

import (
	"fmt"

	"github.com/deploymenttheory/go-workflow-autofix/internal/logger"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// zipFieldArrays broadcasts string fields of zipToObjects to arrays
type zipFieldArrays struct{}

func (zipFieldArrays) Name() string { return "zip-field-arrays" }

func (zipFieldArrays) Description() string {
	return "Broadcast string fields in zipToObjects fieldArrays to arrays of matching length"
}

func (zipFieldArrays) Types() []FixType { return []FixType{FixZipToObjectsStringToArray} }

func (zipFieldArrays) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixZipToObjectsStringToArray) {
		return
	}

	for _, step := range doc.Steps() {
		if !env.Tables.IsZipToObjects(step.Module()) {
			continue
		}
		inputs := step.Inputs()
		if inputs == nil || !inputs.Has("fieldArrays") {
			continue
		}
		fieldArrays, ok := inputs.GetObject("fieldArrays")
		if !ok {
			logger.LogWarn("Skipping zipToObjects step with non-object fieldArrays", map[string]interface{}{
				"step":  step.ID(),
				"index": step.Index(),
			})
			continue
		}

		targetLength := 0
		fieldArrays.Range(func(_ string, value interface{}) bool {
			if arr, ok := value.([]interface{}); ok {
				targetLength = len(arr)
				return false
			}
			return true
		})
		if targetLength == 0 {
			continue
		}

		for _, field := range fieldArrays.Keys() {
			value, _ := fieldArrays.Get(field)
			s, ok := value.(string)
			if !ok {
				continue
			}

			broadcast := make([]interface{}, targetLength)
			for i := range broadcast {
				broadcast[i] = s
			}
			fieldArrays.Set(field, broadcast)

			env.record(step.ID(), FixZipToObjectsStringToArray,
				fieldSnapshot(field, s), fieldSnapshot(field, broadcast),
				fmt.Sprintf("Converted string field %q to array of length %d", field, targetLength))
		}
	}
}

// arrayParamShape moves between the `arrays` list and `arr1`/`arr2` forms
type arrayParamShape struct{}

func (arrayParamShape) Name() string { return "array-param-shape" }

func (arrayParamShape) Description() string {
	return "Convert between arr1/arr2 and arrays parameters to match the function signature"
}

func (arrayParamShape) Types() []FixType {
	return []FixType{FixArrayRestParams, FixArraySeparateParams}
}

func (arrayParamShape) Apply(doc *workflow.Document, env *Env) {
	for _, step := range doc.Steps() {
		module := step.Module()
		inputs := step.Inputs()
		if inputs == nil {
			continue
		}

		switch {
		case env.Tables.TakesArraysList(module) && env.Enabled(FixArrayRestParams):
			first := firstTruthy(inputs, "arr1", "array1")
			second := firstTruthy(inputs, "arr2", "array2")
			if first == nil || second == nil || truthyField(inputs, "arrays") {
				continue
			}

			before := snapshot(inputs)
			for _, key := range []string{"arr1", "array1", "arr2", "array2"} {
				inputs.Delete(key)
			}
			inputs.Set("arrays", []interface{}{first, second})

			env.record(step.ID(), FixArrayRestParams, before, snapshot(inputs),
				fmt.Sprintf("Converted arr1/arr2 to arrays parameter for %s", module))

		case env.Tables.TakesSeparateArrays(module) && env.Enabled(FixArraySeparateParams):
			arrays, ok := inputs.GetArray("arrays")
			if !ok || len(arrays) < 2 || truthyField(inputs, "arr1") {
				continue
			}

			before := snapshot(inputs)
			inputs.Set("arr1", arrays[0])
			inputs.Set("arr2", arrays[1])
			inputs.Delete("arrays")

			env.record(step.ID(), FixArraySeparateParams, before, snapshot(inputs),
				fmt.Sprintf("Converted arrays to arr1/arr2 parameters for %s", module))
		}
	}
}

// arrParamRename renames `array` to `arr` for functions that expect `arr`
type arrParamRename struct{}

func (arrParamRename) Name() string { return "arr-param-rename" }

func (arrParamRename) Description() string {
	return "Rename the array parameter to arr for functions that expect arr"
}

func (arrParamRename) Types() []FixType { return []FixType{FixArrayParamRename} }

func (arrParamRename) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixArrayParamRename) {
		return
	}

	for _, step := range doc.Steps() {
		module := step.Module()
		if !env.Tables.TakesArr(module) {
			continue
		}
		inputs := step.Inputs()
		if inputs == nil || !truthyField(inputs, "array") || truthyField(inputs, "arr") {
			continue
		}

		before := snapshot(inputs)
		value, _ := inputs.Get("array")
		inputs.Set("arr", value)
		inputs.Delete("array")

		env.record(step.ID(), FixArrayParamRename, before, snapshot(inputs),
			fmt.Sprintf("Renamed 'array' parameter to 'arr' for %s", module))
	}
}
