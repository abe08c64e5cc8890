package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
)

func TestDefaultCatalogLoads(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cat.Len() == 0 {
		t.Fatal("default catalog is empty")
	}

	ids := make(map[string]bool)
	for i, r := range cat.Rules() {
		if ids[r.ID] {
			t.Errorf("duplicate rule id %q", r.ID)
		}
		ids[r.ID] = true
		if r.Index() != i {
			t.Errorf("rule %s index = %d, want %d", r.ID, r.Index(), i)
		}
		if r.Suggestion == "" {
			t.Errorf("rule %s has no suggestion", r.ID)
		}
		if r.Family == model.FamilyLegacy && r.Severity != model.SeverityHigh {
			t.Errorf("legacy rule %s severity = %s, want HIGH", r.ID, r.Severity)
		}
		if r.Family == model.FamilySecurity && r.Severity < model.SeverityHigh {
			t.Errorf("security rule %s severity = %s, want HIGH or CRITICAL", r.ID, r.Severity)
		}
	}

	for _, id := range []string{"py2-print-statement", "sec-eval", "py-future-import", "js-var-declaration"} {
		if !ids[id] {
			t.Errorf("default catalog is missing %s", id)
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	rs := cat.Rules()
	rs[0].Severity = model.SeverityLow
	rs[0].ID = "changed"

	if got := cat.Rules()[0]; got.ID == "changed" {
		t.Error("mutating Rules() result changed the catalog")
	}
}

func TestForLanguage(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	py := cat.ForLanguage("python")
	if len(py) == 0 {
		t.Fatal("no python rules")
	}
	last := -1
	for _, r := range py {
		if !r.AppliesTo("python") {
			t.Errorf("%s does not apply to python", r.ID)
		}
		if r.Index() <= last {
			t.Errorf("rules out of catalog order at %s", r.ID)
		}
		last = r.Index()
	}

	if got := cat.ForLanguage("cobol"); len(got) != 0 {
		t.Errorf("cobol rules = %d, want 0", len(got))
	}
}

func TestPrintStatementMatchesOnlyItsRule(t *testing.T) {
	t.Parallel()

	cat, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	var hits []string
	for _, r := range cat.ForLanguage("python") {
		if r.Scope != ScopeLine {
			continue
		}
		if _, ok := r.MatchString(`print "hi"`); ok {
			hits = append(hits, r.ID)
		}
	}
	if len(hits) != 1 || hits[0] != "py2-print-statement" {
		t.Errorf("matching rules = %v, want [py2-print-statement]", hits)
	}
}

const testCatalog = `
rules:
  - id: first
    family: legacy
    severity: high
    languages: [python]
    pattern: 'foo\('
    description: Call to {match}
    suggestion: Use bar()
  - id: second
    family: security
    severity: LOW
    languages: [python, javascript]
    scope: file
    pattern: 'baz'
    description: Found baz
`

func TestParseOptions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		opts Options
		want map[string]model.Severity
	}{
		{
			name: "no options",
			want: map[string]model.Severity{"first": model.SeverityHigh, "second": model.SeverityLow},
		},
		{
			name: "override",
			opts: Options{Overrides: map[string]model.Severity{"second": model.SeverityCritical}},
			want: map[string]model.Severity{"first": model.SeverityHigh, "second": model.SeverityCritical},
		},
		{
			name: "disabled",
			opts: Options{Disabled: []string{"first", "unknown"}},
			want: map[string]model.Severity{"second": model.SeverityLow},
		},
		{
			name: "min severity",
			opts: Options{MinSeverity: model.SeverityMedium},
			want: map[string]model.Severity{"first": model.SeverityHigh},
		},
		{
			name: "override applies before min severity",
			opts: Options{
				MinSeverity: model.SeverityHigh,
				Overrides:   map[string]model.Severity{"first": model.SeverityMedium, "second": model.SeverityHigh},
			},
			want: map[string]model.Severity{"second": model.SeverityHigh},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cat, err := Parse([]byte(testCatalog), tc.opts)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			got := cat.Rules()
			if len(got) != len(tc.want) {
				t.Fatalf("got %d rules, want %d", len(got), len(tc.want))
			}
			for i, r := range got {
				want, ok := tc.want[r.ID]
				if !ok {
					t.Errorf("unexpected rule %s", r.ID)
					continue
				}
				if r.Severity != want {
					t.Errorf("%s severity = %s, want %s", r.ID, r.Severity, want)
				}
				if r.Index() != i {
					t.Errorf("%s index = %d, want %d", r.ID, r.Index(), i)
				}
			}
		})
	}
}

func TestParseDefaultsAndTemplates(t *testing.T) {
	t.Parallel()

	cat, err := Parse([]byte(testCatalog), Options{})
	if err != nil {
		t.Fatal(err)
	}
	rs := cat.Rules()

	if rs[0].Scope != ScopeLine || rs[1].Scope != ScopeFile {
		t.Errorf("scopes = %s, %s", rs[0].Scope, rs[1].Scope)
	}
	if got := rs[0].Describe("  foo(  "); got != "Call to foo(" {
		t.Errorf("Describe = %q", got)
	}
	if got := rs[1].Describe("anything"); got != "Found baz" {
		t.Errorf("Describe = %q", got)
	}

	long := strings.Repeat("x", 200)
	if got := rs[0].Describe(long); !strings.HasSuffix(got, "...") || len(got) > 80 {
		t.Errorf("long match not truncated: %q", got)
	}
	if got := rs[0].Describe("foo(\xff"); !strings.Contains(got, "�") {
		t.Errorf("invalid UTF-8 not replaced: %q", got)
	}

	locs := rs[1].FindAllIndex("baz\nbaz")
	if len(locs) != 2 || locs[1][0] != 4 {
		t.Errorf("FindAllIndex = %v", locs)
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	t.Parallel()

	rule := func(fields string) string {
		return "rules:\n  - " + strings.ReplaceAll(strings.TrimSpace(fields), "\n", "\n    ") + "\n"
	}
	valid := "id: a\nfamily: legacy\nseverity: HIGH\nlanguages: [python]\npattern: 'x'\ndescription: d"

	cases := map[string]string{
		"empty":          "rules: []\n",
		"not yaml":       "rules: [\n",
		"bad severity":   rule(strings.Replace(valid, "HIGH", "URGENT", 1)),
		"bad family":     rule(strings.Replace(valid, "legacy", "style", 1)),
		"bad scope":      rule(valid + "\nscope: block"),
		"bad pattern":    rule(strings.Replace(valid, "'x'", "'(x'", 1)),
		"empty match":    rule(strings.Replace(valid, "'x'", "'x*'", 1)),
		"no languages":   rule(strings.Replace(valid, "[python]", "[]", 1)),
		"no id":          rule(strings.Replace(valid, "id: a", "id: ''", 1)),
		"no description": rule(strings.Replace(valid, "description: d", "description: ''", 1)),
		"duplicate id":   rule(valid) + "  - " + strings.ReplaceAll(valid, "\n", "\n    ") + "\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(data), Options{}); err == nil {
				t.Errorf("expected error for %s catalog", name)
			}
		})
	}

	if _, err := Parse([]byte(rule(valid)), Options{}); err != nil {
		t.Errorf("valid catalog rejected: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("Len = %d, want 2", cat.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}

	def, err := Load("", Options{})
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if def.Len() < 30 {
		t.Errorf("default catalog has %d rules", def.Len())
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	opts, err := OptionsFromConfig(
		config.RulesConfig{Disabled: []string{"a"}},
		config.SeverityConfig{MinSeverity: "medium", Overrides: map[string]string{"b": "critical"}},
	)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.MinSeverity != model.SeverityMedium || opts.Overrides["b"] != model.SeverityCritical || opts.Disabled[0] != "a" {
		t.Errorf("opts = %+v", opts)
	}

	if _, err := OptionsFromConfig(config.RulesConfig{}, config.SeverityConfig{MinSeverity: "urgent"}); err == nil {
		t.Error("expected error for bad min severity")
	}
	if _, err := OptionsFromConfig(config.RulesConfig{}, config.SeverityConfig{Overrides: map[string]string{"a": "x"}}); err == nil {
		t.Error("expected error for bad override")
	}
}
