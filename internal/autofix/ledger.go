package autofix

// FixType names one category of correction
type FixType string

const (
	FixAIOptionsWrapper          FixType = "AI_SDK_OPTIONS_WRAPPER"
	FixAIMinTokens               FixType = "AI_SDK_MIN_TOKENS"
	FixAIContentAccess           FixType = "AI_SDK_CONTENT_ACCESS"
	FixZipToObjectsStringToArray FixType = "ZIPTOOBJECTS_STRING_TO_ARRAY"
	FixArrayRestParams           FixType = "ARRAY_FUNCTION_REST_PARAMS"
	FixArraySeparateParams       FixType = "ARRAY_FUNCTION_SEPARATE_PARAMS"
	FixArrayParamRename          FixType = "ARRAY_PARAM_RENAME"
	FixOutputDisplayReturnValue  FixType = "OUTPUT_DISPLAY_RETURN_VALUE"
	FixVariableNameTypo          FixType = "VARIABLE_NAME_TYPO"
	FixModulePathCase            FixType = "MODULE_PATH_CASE"
)

// ConfigStepID is the step id recorded for fixes to the config node itself
const ConfigStepID = "config"

var fixTitles = map[FixType]string{
	FixAIOptionsWrapper:          "AI SDK Options Wrapper",
	FixAIMinTokens:               "AI SDK Minimum Tokens",
	FixAIContentAccess:           "AI SDK Content Access",
	FixZipToObjectsStringToArray: "zipToObjects Array Conversion",
	FixArrayRestParams:           "Array Function Rest Parameters",
	FixArraySeparateParams:       "Array Function Separate Parameters",
	FixArrayParamRename:          "Array Parameter Rename",
	FixOutputDisplayReturnValue:  "Output Display returnValue Position",
	FixVariableNameTypo:          "Variable Name Typos",
	FixModulePathCase:            "Module Path Case",
}

// AllFixTypes lists every category in rule execution order
func AllFixTypes() []FixType {
	return []FixType{
		FixAIOptionsWrapper,
		FixAIMinTokens,
		FixAIContentAccess,
		FixZipToObjectsStringToArray,
		FixArrayRestParams,
		FixArraySeparateParams,
		FixArrayParamRename,
		FixOutputDisplayReturnValue,
		FixVariableNameTypo,
		FixModulePathCase,
	}
}

// Title returns a human readable name for the category
func (t FixType) Title() string {
	if title, ok := fixTitles[t]; ok {
		return title
	}
	return string(t)
}

// Valid reports whether t is a known category
func (t FixType) Valid() bool {
	_, ok := fixTitles[t]
	return ok
}

// Fix records one applied correction
type Fix struct {
	StepID      string  `json:"stepId"`
	Type        FixType `json:"type"`
	Before      string  `json:"before"`
	After       string  `json:"after"`
	Description string  `json:"description"`
}

// Group is every fix of one category
type Group struct {
	Type  FixType `json:"type"`
	Title string  `json:"title"`
	Fixes []Fix   `json:"fixes"`
}

// Ledger is the append-only log of fixes applied during one run
type Ledger struct {
	fixes []Fix
}

// NewLedger returns an empty ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends a fix
func (l *Ledger) Record(fix Fix) {
	l.fixes = append(l.fixes, fix)
}

// Fixes returns a copy of the recorded fixes in order
func (l *Ledger) Fixes() []Fix {
	out := make([]Fix, len(l.fixes))
	copy(out, l.fixes)
	return out
}

// Len returns the number of recorded fixes
func (l *Ledger) Len() int {
	return len(l.fixes)
}

// Empty reports whether no fix was recorded
func (l *Ledger) Empty() bool {
	return len(l.fixes) == 0
}

// Count returns how many fixes of type t were recorded
func (l *Ledger) Count(t FixType) int {
	n := 0
	for _, f := range l.fixes {
		if f.Type == t {
			n++
		}
	}
	return n
}

// Groups returns the fixes grouped by category, categories in the order they
// were first recorded
func (l *Ledger) Groups() []Group {
	return GroupFixes(l.fixes)
}

// GroupFixes groups fixes by category in first-seen order
func GroupFixes(fixes []Fix) []Group {
	var groups []Group
	index := make(map[FixType]int)

	for _, f := range fixes {
		i, ok := index[f.Type]
		if !ok {
			i = len(groups)
			index[f.Type] = i
			groups = append(groups, Group{Type: f.Type, Title: f.Type.Title()})
		}
		groups[i].Fixes = append(groups[i].Fixes, f)
	}
	return groups
}
