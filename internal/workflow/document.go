package workflow

import (
	"fmt"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
)

// Parse decodes a workflow document. It only insists on the minimal shape:
// a top-level object whose config.steps is an array of objects. Everything
// else passes through untouched.
func Parse(data []byte) (*Document, error) {
	root, err := jsonutil.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrMalformedDocument, err.Error())
	}
	return FromObject(root)
}

// FromObject builds a Document over an already decoded tree
func FromObject(root *jsonutil.Object) (*Document, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: document is empty", errors.ErrMalformedDocument)
	}

	config, ok := root.GetObject(KeyConfig)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q object", errors.ErrMalformedDocument, KeyConfig)
	}

	rawSteps, ok := config.GetArray(KeySteps)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array", errors.ErrMalformedDocument, KeyConfig+"."+KeySteps)
	}

	steps := make([]*Step, 0, len(rawSteps))
	for i, raw := range rawSteps {
		node, ok := raw.(*jsonutil.Object)
		if !ok || node == nil {
			return nil, fmt.Errorf("%w: step %d is not an object", errors.ErrMalformedDocument, i+1)
		}
		steps = append(steps, &Step{node: node, index: i})
	}

	return &Document{root: root, config: config, steps: steps}, nil
}

// Encode encodes the document indented by indent spaces and terminated by a
// newline, the on-disk form. An indent of 0 writes compact JSON.
func (d *Document) Encode(indent int) ([]byte, error) {
	opts := jsonutil.DefaultJSONOptions
	if indent <= 0 {
		opts.Format = jsonutil.FormatMinified
	} else {
		opts.IndentSize = indent
	}

	data, err := jsonutil.Encode(d.root, opts)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	clone, err := FromObject(d.root.Clone())
	if err != nil {
		// The shape was already validated when d was built.
		panic(err)
	}
	return clone
}
