// Package workflow provides the typed view over a workflow JSON document:
// metadata, trigger, the ordered step list and the output configuration.
//
// The document is held as an ordered JSON tree so fields the corrector does not
// know about, and the key order of everything it does not rewrite, survive a
// load/save cycle unchanged. Document and Step are thin accessors over that tree.
package workflow

import (
	"encoding/json"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
)

// Well-known document keys
const (
	KeyVersion       = "version"
	KeyName          = "name"
	KeyDescription   = "description"
	KeyTrigger       = "trigger"
	KeyConfig        = "config"
	KeySteps         = "steps"
	KeyOutputDisplay = "outputDisplay"
	KeyReturnValue   = "returnValue"
	KeyMetadata      = "metadata"

	KeyStepID       = "id"
	KeyStepModule   = "module"
	KeyStepInputs   = "inputs"
	KeyStepOutputAs = "outputAs"
)

// Document is a parsed workflow
type Document struct {
	root   *jsonutil.Object
	config *jsonutil.Object
	steps  []*Step
}

// Step is one entry of config.steps
type Step struct {
	node  *jsonutil.Object
	index int
}

// Trigger describes what starts the workflow. The corrector never changes it.
type Trigger struct {
	Type   string
	Config *jsonutil.Object
}

// Root returns the underlying JSON object
func (d *Document) Root() *jsonutil.Object {
	return d.root
}

// Config returns the config object
func (d *Document) Config() *jsonutil.Object {
	return d.config
}

// Version returns the version field
func (d *Document) Version() string {
	return stringField(d.root, KeyVersion)
}

// Name returns the name field
func (d *Document) Name() string {
	return stringField(d.root, KeyName)
}

// Description returns the description field
func (d *Document) Description() string {
	return stringField(d.root, KeyDescription)
}

// Trigger returns the trigger, or nil when the document has none
func (d *Document) Trigger() *Trigger {
	obj, ok := d.root.GetObject(KeyTrigger)
	if !ok {
		return nil
	}
	cfg, _ := obj.GetObject(KeyConfig)
	return &Trigger{Type: stringField(obj, "type"), Config: cfg}
}

// RequiredCredentials returns metadata.requiresCredentials
func (d *Document) RequiredCredentials() []string {
	v, ok := jsonutil.GetValue(d.root, KeyMetadata+".requiresCredentials")
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Steps returns the steps in execution order
func (d *Document) Steps() []*Step {
	return d.steps
}

// StepIDs returns every step id in order
func (d *Document) StepIDs() []string {
	ids := make([]string, len(d.steps))
	for i, s := range d.steps {
		ids[i] = s.ID()
	}
	return ids
}

// OutputNames returns every declared outputAs name in step order
func (d *Document) OutputNames() []string {
	var names []string
	for _, s := range d.steps {
		if name := s.OutputAs(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Index returns the position of the step in config.steps
func (s *Step) Index() int {
	return s.index
}

// ID returns the step id. Numeric ids are returned in their JSON form.
func (s *Step) ID() string {
	v, _ := s.node.Get(KeyStepID)
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

// Module returns the dotted module reference, or "" if it is not a string
func (s *Step) Module() string {
	return stringField(s.node, KeyStepModule)
}

// SetModule replaces the module reference
func (s *Step) SetModule(module string) {
	s.node.Set(KeyStepModule, module)
}

// Inputs returns the inputs object, or nil when it is missing or not an object
func (s *Step) Inputs() *jsonutil.Object {
	obj, ok := s.node.GetObject(KeyStepInputs)
	if !ok {
		return nil
	}
	return obj
}

// SetInputs replaces the inputs object, keeping its position in the step
func (s *Step) SetInputs(inputs *jsonutil.Object) {
	s.node.Set(KeyStepInputs, inputs)
}

// OutputAs returns the variable name the step result is bound to
func (s *Step) OutputAs() string {
	return stringField(s.node, KeyStepOutputAs)
}

func stringField(obj *jsonutil.Object, key string) string {
	s, _ := obj.GetString(key)
	return s
}
