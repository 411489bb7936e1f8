// Package autofix implements the workflow correction rules and the ledger
// that records what they changed.
package autofix

import (
	"github.com/deploymenttheory/go-workflow-autofix/internal/logger"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// Rule detects and repairs one class of defect in a workflow document.
// Apply mutates doc in place and records every change in env.Ledger.
type Rule interface {
	Name() string
	Description() string
	Types() []FixType
	Apply(doc *workflow.Document, env *Env)
}

// Env is what a rule may consult while running
type Env struct {
	Tables   *Tables
	Ledger   *Ledger
	disabled map[FixType]bool
}

// Enabled reports whether fixes of type t may be applied
func (e *Env) Enabled(t FixType) bool {
	return !e.disabled[t]
}

func (e *Env) record(stepID string, t FixType, before, after, description string) {
	e.Ledger.Record(Fix{
		StepID:      stepID,
		Type:        t,
		Before:      before,
		After:       after,
		Description: description,
	})

	logger.LogDebug("Applied fix", map[string]interface{}{
		"step":        stepID,
		"type":        string(t),
		"description": description,
	})
}

// snapshot serializes a fragment for the before/after columns of a fix
func snapshot(v interface{}) string {
	return jsonutil.MarshalString(v)
}

// fieldSnapshot serializes a single key/value pair as a one-field object
func fieldSnapshot(key string, value interface{}) string {
	obj := jsonutil.NewObject()
	obj.Set(key, value)
	return snapshot(obj)
}

// firstTruthy returns the value of the first key in keys that holds a truthy
// value, or nil.
func firstTruthy(obj *jsonutil.Object, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := obj.Get(key); ok && jsonutil.Truthy(v) {
			return v
		}
	}
	return nil
}

func truthyField(obj *jsonutil.Object, key string) bool {
	v, _ := obj.Get(key)
	return jsonutil.Truthy(v)
}
