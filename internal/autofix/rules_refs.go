package autofix

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// variableNameTypos rewrites template references whose root differs from a
// declared outputAs name only by case or whitespace.
//
// Any reference that folds to a declared name is rewritten, including ones
// meant to address something else with a similar spelling.
type variableNameTypos struct{}

// triggerRoot addresses the trigger payload, never a step output
const triggerRoot = "trigger"

func (variableNameTypos) Name() string { return "variable-name-typos" }

func (variableNameTypos) Description() string {
	return "Fix case and whitespace typos in {{variable}} references to step outputs"
}

func (variableNameTypos) Types() []FixType { return []FixType{FixVariableNameTypo} }

func (variableNameTypos) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixVariableNameTypo) {
		return
	}

	declared := make(map[string]string)
	for _, name := range doc.OutputNames() {
		if key := workflow.NormalizeName(name); key != "" {
			declared[key] = name
		}
	}
	if len(declared) == 0 {
		return
	}

	for _, step := range doc.Steps() {
		inputs := step.Inputs()
		if inputs == nil {
			continue
		}

		var fixes []Fix
		jsonutil.TransformStrings(inputs, func(s string) string {
			return workflow.ReplaceTemplateRefs(s, func(ref workflow.TemplateRef, _ string) (string, bool) {
				root := ref.Root()
				if strings.TrimSpace(root) == triggerRoot {
					return "", false
				}

				canonical, ok := declared[workflow.NormalizeName(root)]
				if !ok || canonical == root {
					return "", false
				}

				fixed := ref.WithRoot(canonical)
				fixes = append(fixes, Fix{
					Before:      ref.String(),
					After:       fixed,
					Description: fmt.Sprintf("Fixed variable name: %q -> %q", root, canonical),
				})
				return fixed, true
			})
		})

		for _, f := range fixes {
			env.record(step.ID(), FixVariableNameTypo, f.Before, f.After, f.Description)
		}
	}
}
