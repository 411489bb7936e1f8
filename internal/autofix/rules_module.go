package autofix

import (
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// modulePathCase canonicalizes module references against the function-name table
type modulePathCase struct{}

func (modulePathCase) Name() string { return "module-path-case" }

func (modulePathCase) Description() string {
	return "Lower-case module category and namespace and correct function name spelling"
}

func (modulePathCase) Types() []FixType { return []FixType{FixModulePathCase} }

func (modulePathCase) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixModulePathCase) {
		return
	}

	for _, step := range doc.Steps() {
		module := step.Module()
		if module == "" {
			continue
		}
		corrected := env.Tables.CanonicalModule(module)
		if corrected == module {
			continue
		}

		step.SetModule(corrected)
		env.record(step.ID(), FixModulePathCase, module, corrected, "Fixed module path case")
	}
}
