package autofix

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-workflow-autofix/internal/logger"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// DefaultRules returns the rule set in execution order. Later rules rely on
// the normalization done by earlier ones, so the order is fixed.
func DefaultRules() []Rule {
	return []Rule{
		aiOptionsWrapper{},
		aiMinTokens{},
		aiContentAccess{},
		zipFieldArrays{},
		arrayParamShape{},
		arrParamRename{},
		returnValueLocation{},
		variableNameTypos{},
		modulePathCase{},
	}
}

// Corrector runs the rule set over workflow documents
type Corrector struct {
	tables   *Tables
	rules    []Rule
	disabled map[FixType]bool
}

// Option configures a Corrector
type Option func(*Corrector) error

// WithTables replaces the built-in correction tables
func WithTables(t *Tables) Option {
	return func(c *Corrector) error {
		if t == nil {
			return fmt.Errorf("%w: tables must not be nil", errors.ErrInvalidArgument)
		}
		c.tables = t
		return nil
	}
}

// WithDisabled turns off rules, named either by rule name or by fix type
func WithDisabled(names ...string) Option {
	return func(c *Corrector) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			types, err := resolveRule(c.rules, name)
			if err != nil {
				return err
			}
			for _, t := range types {
				c.disabled[t] = true
			}
		}
		return nil
	}
}

// New creates a Corrector with the default rules and tables
func New(opts ...Option) (*Corrector, error) {
	c := &Corrector{
		tables:   DefaultTables(),
		rules:    DefaultRules(),
		disabled: make(map[FixType]bool),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Rules returns the rules in execution order
func (c *Corrector) Rules() []Rule {
	return c.rules
}

// Tables returns the correction tables in use
func (c *Corrector) Tables() *Tables {
	return c.tables
}

// Enabled reports whether a rule will run at all
func (c *Corrector) Enabled(r Rule) bool {
	for _, t := range r.Types() {
		if !c.disabled[t] {
			return true
		}
	}
	return false
}

// Correct applies every enabled rule to doc in order, mutating it in place,
// and returns a fresh ledger of what changed.
func (c *Corrector) Correct(doc *workflow.Document) *Ledger {
	env := &Env{
		Tables:   c.tables,
		Ledger:   NewLedger(),
		disabled: c.disabled,
	}

	for _, rule := range c.rules {
		if !c.Enabled(rule) {
			logger.LogDebug("Skipping disabled rule", map[string]interface{}{"rule": rule.Name()})
			continue
		}

		before := env.Ledger.Len()
		rule.Apply(doc, env)

		if applied := env.Ledger.Len() - before; applied > 0 {
			logger.LogDebug("Rule applied fixes", map[string]interface{}{
				"rule":  rule.Name(),
				"fixes": applied,
			})
		}
	}

	return env.Ledger
}

func resolveRule(rules []Rule, name string) ([]FixType, error) {
	if t := FixType(strings.ToUpper(name)); t.Valid() {
		return []FixType{t}, nil
	}
	for _, r := range rules {
		if strings.EqualFold(r.Name(), name) {
			return r.Types(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrUnknownRule, name)
}
