package autofix

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/jsonutil"
	"github.com/deploymenttheory/go-workflow-autofix/internal/workflow"
)

// aiOptionsWrapper nests flat AI SDK call inputs under an options key
type aiOptionsWrapper struct{}

func (aiOptionsWrapper) Name() string { return "ai-options-wrapper" }

func (aiOptionsWrapper) Description() string {
	return "Wrap flat AI SDK inputs (prompt/messages) in an options object"
}

func (aiOptionsWrapper) Types() []FixType { return []FixType{FixAIOptionsWrapper} }

func (aiOptionsWrapper) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixAIOptionsWrapper) {
		return
	}

	for _, step := range doc.Steps() {
		if !env.Tables.IsAIModule(step.Module()) {
			continue
		}
		inputs := step.Inputs()
		if inputs == nil || inputs.Has("options") {
			continue
		}
		if !truthyField(inputs, "prompt") && !truthyField(inputs, "messages") {
			continue
		}

		before := snapshot(inputs)
		wrapped := jsonutil.NewObject()
		wrapped.Set("options", inputs)
		step.SetInputs(wrapped)

		env.record(step.ID(), FixAIOptionsWrapper, before, snapshot(wrapped),
			`Wrapped AI SDK inputs in "options" object`)
	}
}

// aiMinTokens raises maxTokens values the provider would reject
type aiMinTokens struct{}

const maxTokensPath = "options.maxTokens"

func (aiMinTokens) Name() string { return "ai-min-tokens" }

func (aiMinTokens) Description() string {
	return "Raise options.maxTokens below the provider minimum to a safe value"
}

func (aiMinTokens) Types() []FixType { return []FixType{FixAIMinTokens} }

func (aiMinTokens) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixAIMinTokens) {
		return
	}

	for _, step := range doc.Steps() {
		if !env.Tables.IsAIModule(step.Module()) {
			continue
		}
		inputs := step.Inputs()
		if inputs == nil {
			continue
		}
		raw, ok := jsonutil.GetValue(inputs, maxTokensPath)
		if !ok {
			continue
		}
		tokens, ok := jsonutil.Number(raw)
		if !ok || tokens >= float64(env.Tables.MinTokens) {
			continue
		}

		before := snapshot(inputs)
		if err := jsonutil.SetValue(inputs, maxTokensPath, json.Number(strconv.Itoa(env.Tables.SafeTokens))); err != nil {
			continue
		}

		env.record(step.ID(), FixAIMinTokens, before, snapshot(inputs),
			fmt.Sprintf("Increased maxTokens from %s to %d (OpenAI minimum is %d)",
				numberText(raw), env.Tables.SafeTokens, env.Tables.MinTokens))
	}
}

// aiContentAccess points string utilities at the text payload of AI results
type aiContentAccess struct{}

func (aiContentAccess) Name() string { return "ai-content-access" }

func (aiContentAccess) Description() string {
	return "Add .content to bare references to AI SDK outputs in string utility inputs"
}

func (aiContentAccess) Types() []FixType { return []FixType{FixAIContentAccess} }

func (aiContentAccess) Apply(doc *workflow.Document, env *Env) {
	if !env.Enabled(FixAIContentAccess) {
		return
	}

	aiOutputs := make(map[string]bool)
	for _, step := range doc.Steps() {
		if name := step.OutputAs(); name != "" && env.Tables.IsAIModule(step.Module()) {
			if key := workflow.NormalizeName(name); key != "" {
				aiOutputs[key] = true
			}
		}
	}
	if len(aiOutputs) == 0 {
		return
	}

	for _, step := range doc.Steps() {
		if !env.Tables.IsStringUtility(step.Module()) {
			continue
		}
		inputs := step.Inputs()
		if inputs == nil {
			continue
		}

		before := snapshot(inputs)
		_, changed := jsonutil.TransformStrings(inputs, func(s string) string {
			return workflow.ReplaceTemplateRefs(s, func(ref workflow.TemplateRef, rest string) (string, bool) {
				if ref.HasPath() || strings.HasPrefix(rest, ".") {
					return "", false
				}
				if !aiOutputs[workflow.NormalizeName(ref.Expr)] {
					return "", false
				}
				return "{{" + strings.TrimSpace(ref.Expr) + ".content}}", true
			})
		})
		if !changed {
			continue
		}

		env.record(step.ID(), FixAIContentAccess, before, snapshot(inputs),
			"Added .content to AI SDK variable references")
	}
}

func numberText(v interface{}) string {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	f, _ := jsonutil.Number(v)
	return strconv.FormatFloat(f, 'f', -1, 64)
}
