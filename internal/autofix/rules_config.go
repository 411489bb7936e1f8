package autofix

import (
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// returnValueLocation moves outputDisplay.returnValue up to config
type returnValueLocation struct{}

func (returnValueLocation) Name() string { return "return-value-location" }

func (returnValueLocation) Description() string {
	return "Move returnValue from outputDisplay to the config level"
}

func (returnValueLocation) Types() []FixType { return []FixType{FixOutputDisplayReturnValue} }

func (returnValueLocation) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixOutputDisplayReturnValue) {
		return
	}

	legacyPath := workflow.KeyOutputDisplay + "." + workflow.KeyReturnValue
	value, ok := jsonutil.GetValue(doc.Config(), legacyPath)
	if !ok {
		return
	}

	doc.Config().Set(workflow.KeyReturnValue, value)
	jsonutil.DeleteValue(doc.Config(), legacyPath)

	encoded := snapshot(value)
	env.record(ConfigStepID, FixOutputDisplayReturnValue,
		legacyPath+" = "+encoded,
		workflow.KeyConfig+"."+workflow.KeyReturnValue+" = "+encoded,
		"Moved returnValue from outputDisplay to config level")
}
