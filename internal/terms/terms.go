// Package terms turns search-term lists into board query expressions and
// case-insensitive match patterns.
package terms

import (
	"regexp"
	"strings"
)

// ToSearch builds a boolean board query from terms. Terms containing a space
// are double-quoted; a single term is returned as is, several are OR-joined
// inside parentheses.
//
// Panics if terms is empty.
func ToSearch(terms []string) string {
	if len(terms) == 0 {
		panic("terms: ToSearch called with no terms")
	}
	quoted := quote(terms, `"`)
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "(" + strings.Join(quoted, " OR ") + ")"
}

// ToRegex builds an alternation pattern from terms. Terms containing a space
// are single-quoted.
//
// Panics if terms is empty.
func ToRegex(terms []string) string {
	if len(terms) == 0 {
		panic("terms: ToRegex called with no terms")
	}
	return strings.Join(quote(terms, "'"), "|")
}

// SearchExpression composes the include query with an optional NOT clause.
func SearchExpression(include, exclude []string) string {
	expr := ToSearch(include)
	if len(exclude) > 0 {
		expr += " NOT " + ToSearch(exclude)
	}
	return expr
}

// Compile returns a case-insensitive matcher for ToRegex(terms). Terms keep
// their regex meaning; if the alternation is not valid RE2 every term is
// matched literally instead.
//
// Panics if terms is empty.
func Compile(terms []string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + ToRegex(terms))
	if err == nil {
		return re
	}
	literal := make([]string, len(terms))
	for i, t := range quote(terms, "'") {
		literal[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile("(?i)" + strings.Join(literal, "|"))
}

// quote returns a copy of terms with every space-containing term wrapped in q.
func quote(terms []string, q string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		if strings.Contains(t, " ") {
			t = q + t + q
		}
		out[i] = t
	}
	return out
}
