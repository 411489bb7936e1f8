package autofix

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/errors"
	"github.com/deploymenttheory/go-workflow-autofix/internal/utils/fsutil"
)

//go:embed tables.yaml
var builtinTables []byte

// Tables is the static knowledge about the module registry that the rules
// rely on: which modules belong to which family and the canonical spelling of
// function names.
type Tables struct {
	AIModules             []string          `yaml:"aiModules"`
	MinTokens             int               `yaml:"minTokens"`
	SafeTokens            int               `yaml:"safeTokens"`
	StringUtilsPrefix     string            `yaml:"stringUtilsPrefix"`
	ZipToObjectsModule    string            `yaml:"zipToObjectsModule"`
	RestParamArrayModules []string          `yaml:"restParamArrayModules"`
	SeparateArrayModules  []string          `yaml:"separateArrayModules"`
	ArrParamModules       []string          `yaml:"arrParamModules"`
	FunctionNames         map[string]string `yaml:"functionNames"`

	aiModules     map[string]bool
	restParam     map[string]bool
	separateParam map[string]bool
	arrParam      map[string]bool
	functionIndex map[string]string // lower-cased module path -> canonical path
}

// correctionsFile is the shape of a user supplied corrections file
type correctionsFile struct {
	FunctionNames map[string]string `yaml:"functionNames"`
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// DefaultTables returns the built-in tables. They are parsed once and must
// not be modified by callers.
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		t, err := ParseTables(builtinTables)
		if err != nil {
			panic(fmt.Sprintf("built-in correction tables: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// ParseTables decodes and indexes a tables document
func ParseTables(data []byte) (*Tables, error) {
	t := &Tables{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrInvalidTable, err.Error())
	}
	if err := t.index(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadCorrections reads extra function-name corrections from a YAML file
// with a top-level functionNames mapping.
func LoadCorrections(path string) (map[string]string, error) {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrFileReadError, err.Error())
	}

	var file correctionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errors.ErrInvalidTable, path, err.Error())
	}
	return file.FunctionNames, nil
}

// WithFunctionNames returns a copy of t whose function-name table also
// contains extra. Entries in extra win over built-in ones.
func (t *Tables) WithFunctionNames(extra map[string]string) (*Tables, error) {
	clone := &Tables{
		AIModules:             t.AIModules,
		MinTokens:             t.MinTokens,
		SafeTokens:            t.SafeTokens,
		StringUtilsPrefix:     t.StringUtilsPrefix,
		ZipToObjectsModule:    t.ZipToObjectsModule,
		RestParamArrayModules: t.RestParamArrayModules,
		SeparateArrayModules:  t.SeparateArrayModules,
		ArrParamModules:       t.ArrParamModules,
		FunctionNames:         make(map[string]string, len(t.FunctionNames)+len(extra)),
	}
	for k, v := range t.FunctionNames {
		clone.FunctionNames[k] = v
	}
	for k, v := range extra {
		clone.FunctionNames[k] = v
	}

	if err := clone.index(); err != nil {
		return nil, err
	}
	return clone, nil
}

func (t *Tables) index() error {
	if t.MinTokens <= 0 {
		return fmt.Errorf("%w: minTokens must be positive", errors.ErrInvalidTable)
	}
	if t.SafeTokens < t.MinTokens {
		return fmt.Errorf("%w: safeTokens (%d) is below minTokens (%d)", errors.ErrInvalidTable, t.SafeTokens, t.MinTokens)
	}

	t.aiModules = toSet(t.AIModules)
	t.restParam = toSet(t.RestParamArrayModules)
	t.separateParam = toSet(t.SeparateArrayModules)
	t.arrParam = toSet(t.ArrParamModules)

	for module := range t.restParam {
		if t.separateParam[module] {
			return fmt.Errorf("%w: %s is listed as both rest and separate array module", errors.ErrInvalidTable, module)
		}
	}

	t.functionIndex = make(map[string]string, len(t.FunctionNames))
	for from, to := range t.FunctionNames {
		if len(strings.Split(from, ".")) != 3 || len(strings.Split(to, ".")) != 3 {
			return fmt.Errorf("%w: function name correction %q -> %q is not a category.namespace.function path", errors.ErrInvalidTable, from, to)
		}
		t.functionIndex[strings.ToLower(from)] = to
	}
	return nil
}

// CanonicalModule returns the corrected spelling of a module reference:
// category and namespace lower-cased, then the function-name table applied.
// References that are not three dot-separated segments come back unchanged.
func (t *Tables) CanonicalModule(module string) string {
	parts := strings.Split(module, ".")
	if len(parts) != 3 {
		return module
	}

	corrected := strings.ToLower(parts[0]) + "." + strings.ToLower(parts[1]) + "." + parts[2]
	if canonical, ok := t.functionIndex[strings.ToLower(corrected)]; ok {
		return canonical
	}
	return corrected
}

// IsAIModule reports whether module (in any spelling) is an AI SDK call
func (t *Tables) IsAIModule(module string) bool {
	return t.aiModules[t.CanonicalModule(module)]
}

// IsStringUtility reports whether module belongs to the string utilities namespace
func (t *Tables) IsStringUtility(module string) bool {
	return t.StringUtilsPrefix != "" && strings.HasPrefix(t.CanonicalModule(module), t.StringUtilsPrefix)
}

// IsZipToObjects reports whether module is the zip-fields-into-objects function
func (t *Tables) IsZipToObjects(module string) bool {
	return t.ZipToObjectsModule != "" && t.CanonicalModule(module) == t.ZipToObjectsModule
}

// TakesArraysList reports whether module expects a single `arrays` parameter
func (t *Tables) TakesArraysList(module string) bool {
	return t.restParam[t.CanonicalModule(module)]
}

// TakesSeparateArrays reports whether module expects `arr1` and `arr2`
func (t *Tables) TakesSeparateArrays(module string) bool {
	return t.separateParam[t.CanonicalModule(module)]
}

// TakesArr reports whether module expects its array as `arr`
func (t *Tables) TakesArr(module string) bool {
	return t.arrParam[t.CanonicalModule(module)]
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
