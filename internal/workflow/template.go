package workflow

import (
	"regexp"
	"strings"
	"unicode"
)

// templateRefPattern matches {{name}} and {{name.path}} placeholders.
var templateRefPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// TemplateRef is one {{...}} placeholder inside a string
type TemplateRef struct {
	Expr  string // text between the braces, untrimmed
	Start int    // byte offset of the opening braces
	End   int    // byte offset just past the closing braces
}

// Root returns the variable name, the part of Expr before the first '.'
func (r TemplateRef) Root() string {
	if i := strings.IndexByte(r.Expr, '.'); i >= 0 {
		return r.Expr[:i]
	}
	return r.Expr
}

// Path returns the property path after the first '.', or ""
func (r TemplateRef) Path() string {
	if i := strings.IndexByte(r.Expr, '.'); i >= 0 {
		return r.Expr[i+1:]
	}
	return ""
}

// HasPath reports whether the reference already accesses a property
func (r TemplateRef) HasPath() bool {
	return strings.IndexByte(r.Expr, '.') >= 0
}

// WithRoot returns the placeholder text with its root segment replaced
func (r TemplateRef) WithRoot(root string) string {
	if r.HasPath() {
		return "{{" + root + "." + r.Path() + "}}"
	}
	return "{{" + root + "}}"
}

// String returns the placeholder text
func (r TemplateRef) String() string {
	return "{{" + r.Expr + "}}"
}

// FindTemplateRefs returns every placeholder in s, left to right
func FindTemplateRefs(s string) []TemplateRef {
	matches := templateRefPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]TemplateRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, TemplateRef{Expr: s[m[2]:m[3]], Start: m[0], End: m[1]})
	}
	return refs
}

// ReplaceTemplateRefs rebuilds s, letting fn rewrite each placeholder. fn gets
// the reference and the text following it; returning ok=false keeps the
// original placeholder.
func ReplaceTemplateRefs(s string, fn func(ref TemplateRef, rest string) (string, bool)) string {
	refs := FindTemplateRefs(s)
	if len(refs) == 0 {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	last := 0
	for _, ref := range refs {
		out.WriteString(s[last:ref.Start])
		if replacement, ok := fn(ref, s[ref.End:]); ok {
			out.WriteString(replacement)
		} else {
			out.WriteString(s[ref.Start:ref.End])
		}
		last = ref.End
	}
	out.WriteString(s[last:])
	return out.String()
}

// NormalizeName folds a variable name for typo-tolerant comparison:
// lower-cased with all whitespace removed.
func NormalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}
