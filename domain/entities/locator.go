package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// Capability is the kind of descriptor used to find an element on a page
type Capability string

const (
	CapabilityRole        Capability = "role"
	CapabilityText        Capability = "text"
	CapabilityLabel       Capability = "label"
	CapabilityPlaceholder Capability = "placeholder"
	CapabilityTestID      Capability = "test-id"
	CapabilityCSS         Capability = "css"
)

// Query describes one element lookup.
// Name is only meaningful for role queries (the accessible name).
// With Pattern set, the matched text (Name for roles, Value otherwise) is a
// case-insensitive regular expression and Exact is ignored.
type Query struct {
	Kind    Capability `json:"kind" yaml:"kind"`
	Value   string     `json:"value" yaml:"value"`
	Name    string     `json:"name,omitempty" yaml:"name,omitempty"`
	Exact   bool       `json:"exact,omitempty" yaml:"exact,omitempty"`
	Pattern bool       `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// ByRole - query by ARIA role and, optionally, accessible name
func ByRole(role, name string) Query {
	return Query{Kind: CapabilityRole, Value: role, Name: name}
}

// ByRoleMatching - query by ARIA role and an accessible name matching pattern
func ByRoleMatching(role, pattern string) Query {
	return Query{Kind: CapabilityRole, Value: role, Name: pattern, Pattern: true}
}

// ByText - query by visible text
func ByText(text string) Query {
	return Query{Kind: CapabilityText, Value: text}
}

// ByLabel - query by associated label text
func ByLabel(label string) Query {
	return Query{Kind: CapabilityLabel, Value: label}
}

// ByLabelMatching - query by a label text matching pattern
func ByLabelMatching(pattern string) Query {
	return Query{Kind: CapabilityLabel, Value: pattern, Pattern: true}
}

// ByPlaceholder - query by placeholder text
func ByPlaceholder(placeholder string) Query {
	return Query{Kind: CapabilityPlaceholder, Value: placeholder}
}

// ByTestID - query by test identifier attribute
func ByTestID(id string) Query {
	return Query{Kind: CapabilityTestID, Value: id}
}

// BySelector - raw structural selector query
func BySelector(selector string) Query {
	return Query{Kind: CapabilityCSS, Value: selector}
}

// IsZero reports whether the query is unset
func (q Query) IsZero() bool {
	return q.Kind == "" && q.Value == ""
}

// Semantic reports whether the query is derived from accessibility semantics
// rather than markup structure.
func (q Query) Semantic() bool {
	switch q.Kind {
	case CapabilityRole, CapabilityText, CapabilityLabel, CapabilityPlaceholder, CapabilityTestID:
		return true
	default:
		return false
	}
}

// Regexp compiles the pattern of a Pattern query
func (q Query) Regexp() (*regexp.Regexp, error) {
	pattern := q.Value
	if q.Kind == CapabilityRole {
		pattern = q.Name
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern in %s: %w", q, err)
	}
	return re, nil
}

func (q Query) String() string {
	switch {
	case q.Kind == CapabilityRole && q.Name != "" && q.Pattern:
		return fmt.Sprintf("role=%s[name=/%s/i]", q.Value, q.Name)
	case q.Kind == CapabilityRole && q.Name != "":
		return fmt.Sprintf("role=%s[name=%q]", q.Value, q.Name)
	case q.Pattern:
		return fmt.Sprintf("%s=/%s/i", q.Kind, q.Value)
	}
	return fmt.Sprintf("%s=%s", q.Kind, q.Value)
}

// Resolution pairs the semantic locator of a logical element with its
// structural fallback selector. Either half may be empty, not both.
type Resolution struct {
	Semantic   Query  `json:"semantic" yaml:"semantic"`
	Structural string `json:"structural" yaml:"structural"`
}

// Validate - checks that at least one strategy is present
func (r Resolution) Validate() error {
	if r.Semantic.IsZero() && strings.TrimSpace(r.Structural) == "" {
		return fmt.Errorf("resolution has neither a semantic locator nor a structural selector")
	}
	if !r.Semantic.IsZero() && !r.Semantic.Semantic() {
		return fmt.Errorf("semantic locator %s uses a structural capability", r.Semantic)
	}
	return nil
}

// Alternatives splits a structural selector into its comma-separated
// alternatives. Commas inside quotes, brackets or parentheses do not split.
func Alternatives(selector string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range selector {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			if part := strings.TrimSpace(selector[start:i]); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(selector[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}
