package terms_test

import (
	"testing"

	"jobmate/jobcollect/internal/terms"
)

// ── ToSearch ───────────────────────────────────────────────────────────────

func TestToSearch(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"A"}, "A"},
		{[]string{"B C"}, `"B C"`},
		{[]string{"A", "B C"}, `(A OR "B C")`},
		{[]string{"Embedded", "Firmware"}, "(Embedded OR Firmware)"},
	}
	for _, c := range cases {
		if got := terms.ToSearch(c.in); got != c.want {
			t.Errorf("ToSearch(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToSearch_DoesNotMutateInput(t *testing.T) {
	in := []string{"A", "B C"}
	terms.ToSearch(in)
	if in[1] != "B C" {
		t.Errorf("ToSearch mutated its input: %q", in)
	}
	// A second call must not double-quote.
	if got := terms.ToSearch(in); got != `(A OR "B C")` {
		t.Errorf("second ToSearch = %q", got)
	}
}

func TestToSearch_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ToSearch(nil) should panic")
		}
	}()
	terms.ToSearch(nil)
}

// ── ToRegex ────────────────────────────────────────────────────────────────

func TestToRegex(t *testing.T) {
	if got := terms.ToRegex([]string{"A", "B C"}); got != "A|'B C'" {
		t.Errorf("ToRegex = %q, want %q", got, "A|'B C'")
	}
	if got := terms.ToRegex([]string{"Intern"}); got != "Intern" {
		t.Errorf("ToRegex single = %q", got)
	}
}

func TestToRegex_EmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ToRegex([]) should panic")
		}
	}()
	terms.ToRegex([]string{})
}

// ── SearchExpression ───────────────────────────────────────────────────────

func TestSearchExpression(t *testing.T) {
	cases := []struct {
		include, exclude []string
		want             string
	}{
		{[]string{"Embedded", "Firmware"}, nil, "(Embedded OR Firmware)"},
		{[]string{"Embedded"}, []string{}, "Embedded"},
		{[]string{"Machine Learning"}, []string{"Sales", "Help Desk"}, `"Machine Learning" NOT (Sales OR "Help Desk")`},
	}
	for _, c := range cases {
		if got := terms.SearchExpression(c.include, c.exclude); got != c.want {
			t.Errorf("SearchExpression(%q, %q) = %q, want %q", c.include, c.exclude, got, c.want)
		}
	}
}

// ── Compile ────────────────────────────────────────────────────────────────

func TestCompile_CaseInsensitiveSubstring(t *testing.T) {
	re := terms.Compile([]string{"Senior", "Sr"})
	for _, s := range []string{"Senior Engineer", "senior engineer", "SR. Developer", "Engineer, Sr"} {
		if !re.MatchString(s) {
			t.Errorf("pattern %q should match %q", re, s)
		}
	}
	if re.MatchString("Software Engineer") {
		t.Errorf("pattern %q should not match %q", re, "Software Engineer")
	}
}

func TestCompile_InvalidRegexFallsBackToLiteral(t *testing.T) {
	re := terms.Compile([]string{"C++", "(Go"})
	if !re.MatchString("Senior c++ dev") {
		t.Errorf("literal fallback should match c++")
	}
	if !re.MatchString("(go) engineer") {
		t.Errorf("literal fallback should match (go")
	}
	if re.MatchString("C engineer") {
		t.Errorf("literal fallback should not treat + as a quantifier")
	}
}
