// Package rules holds the immutable catalog of lexical detection rules.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/util"
)

//go:embed default_rules.yaml
var defaultCatalog []byte

// Scope selects what a rule pattern is matched against
type Scope string

const (
	ScopeLine Scope = "line"
	ScopeFile Scope = "file"
)

// matchPlaceholder in a description is replaced with the matched text
const matchPlaceholder = "{match}"

const maxMatchTextLen = 60

// Rule is one catalog entry. Rules are only created by Parse and are
// read-only afterwards; the compiled pattern is safe for concurrent use.
type Rule struct {
	ID          string
	Family      model.Family
	Severity    model.Severity
	Languages   []string
	Scope       Scope
	Pattern     string
	Description string
	Suggestion  string

	index     int
	re        *regexp.Regexp
	languages map[string]struct{}
}

// Index is the rule's position in the catalog.
func (r *Rule) Index() int {
	return r.index
}

// AppliesTo reports whether the rule runs on files of the given language.
func (r *Rule) AppliesTo(language string) bool {
	_, ok := r.languages[language]
	return ok
}

// MatchString returns the first match in s.
func (r *Rule) MatchString(s string) (string, bool) {
	loc := r.re.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	return s[loc[0]:loc[1]], true
}

// FindAllIndex returns the byte offsets of every match in s.
func (r *Rule) FindAllIndex(s string) [][]int {
	return r.re.FindAllStringIndex(s, -1)
}

// Describe renders the description template for a matched text.
func (r *Rule) Describe(match string) string {
	if !strings.Contains(r.Description, matchPlaceholder) {
		return r.Description
	}
	return strings.ReplaceAll(r.Description, matchPlaceholder, cleanMatch(match))
}

func cleanMatch(s string) string {
	s = strings.ToValidUTF8(strings.Join(strings.Fields(s), " "), "�")
	if utf8.RuneCountInString(s) > maxMatchTextLen {
		s = string([]rune(s)[:maxMatchTextLen]) + "..."
	}
	return s
}

// Catalog is an ordered, immutable list of rules
type Catalog struct {
	rules      []Rule
	byLanguage map[string][]Rule
}

// Len returns the number of active rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Rules returns a copy of the active rules in catalog order.
func (c *Catalog) Rules() []Rule {
	return slices.Clone(c.rules)
}

// ForLanguage returns the rules applying to a language, in catalog order.
func (c *Catalog) ForLanguage(language string) []Rule {
	return slices.Clone(c.byLanguage[language])
}

// Options adjust a catalog while it is being built
type Options struct {
	MinSeverity model.Severity
	Overrides   map[string]model.Severity
	Disabled    []string
}

// OptionsFromConfig converts the rules and severity sections of the config.
func OptionsFromConfig(rc config.RulesConfig, sc config.SeverityConfig) (Options, error) {
	opts := Options{
		Disabled:  rc.Disabled,
		Overrides: make(map[string]model.Severity, len(sc.Overrides)),
	}

	if sc.MinSeverity != "" {
		minSev, err := model.ParseSeverity(sc.MinSeverity)
		if err != nil {
			return Options{}, fmt.Errorf("severity.min_severity: %w", err)
		}
		opts.MinSeverity = minSev
	}

	for id, s := range sc.Overrides {
		sev, err := model.ParseSeverity(s)
		if err != nil {
			return Options{}, fmt.Errorf("severity.overrides[%s]: %w", id, err)
		}
		opts.Overrides[id] = sev
	}

	return opts, nil
}

// Default builds the embedded catalog without adjustments.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog, Options{})
}

// Load builds a catalog from a YAML file, or from the embedded catalog when
// path is empty.
func Load(path string, opts Options) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog, opts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule catalog: %w", err)
	}
	cat, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("rule catalog %s: %w", path, err)
	}
	return cat, nil
}

type catalogFile struct {
	Rules []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	ID          string   `yaml:"id"`
	Family      string   `yaml:"family"`
	Severity    string   `yaml:"severity"`
	Languages   []string `yaml:"languages"`
	Scope       string   `yaml:"scope"`
	Pattern     string   `yaml:"pattern"`
	Description string   `yaml:"description"`
	Suggestion  string   `yaml:"suggestion"`
}

// Parse validates and compiles a YAML catalog, then applies opts: overrides
// replace severities, disabled IDs are removed, and rules below MinSeverity
// are dropped.
func Parse(data []byte, opts Options) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rule catalog: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("rule catalog is empty")
	}

	disabled := make(map[string]bool, len(opts.Disabled))
	for _, id := range opts.Disabled {
		disabled[id] = true
	}

	seen := make(map[string]bool, len(file.Rules))
	cat := &Catalog{byLanguage: make(map[string][]Rule)}

	for i, raw := range file.Rules {
		rule, err := compileRule(raw)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, raw.ID, err)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("rule %d: duplicate id %q", i+1, rule.ID)
		}
		seen[rule.ID] = true

		if sev, ok := opts.Overrides[rule.ID]; ok {
			rule.Severity = sev
		}
		if disabled[rule.ID] || rule.Severity < opts.MinSeverity {
			continue
		}

		rule.index = len(cat.rules)
		cat.rules = append(cat.rules, rule)
	}

	for id := range opts.Overrides {
		if !seen[id] {
			util.Warn("Severity override for unknown rule %q ignored", id)
		}
	}
	for id := range disabled {
		if !seen[id] {
			util.Warn("Disabled rule %q is not in the catalog", id)
		}
	}

	for _, rule := range cat.rules {
		for _, lang := range rule.Languages {
			cat.byLanguage[lang] = append(cat.byLanguage[lang], rule)
		}
	}

	return cat, nil
}

func compileRule(raw ruleEntry) (Rule, error) {
	if raw.ID == "" {
		return Rule{}, fmt.Errorf("missing id")
	}

	family := model.Family(raw.Family)
	if !family.Valid() {
		return Rule{}, fmt.Errorf("unknown family %q", raw.Family)
	}

	severity, err := model.ParseSeverity(raw.Severity)
	if err != nil {
		return Rule{}, err
	}

	scope := Scope(raw.Scope)
	switch scope {
	case "":
		scope = ScopeLine
	case ScopeLine, ScopeFile:
	default:
		return Rule{}, fmt.Errorf("unknown scope %q", raw.Scope)
	}

	if len(raw.Languages) == 0 {
		return Rule{}, fmt.Errorf("no languages")
	}
	if raw.Description == "" {
		return Rule{}, fmt.Errorf("missing description")
	}

	re, err := regexp.Compile(raw.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling pattern: %w", err)
	}
	if raw.Pattern == "" || re.MatchString("") {
		return Rule{}, fmt.Errorf("pattern %q matches empty input", raw.Pattern)
	}

	langs := make(map[string]struct{}, len(raw.Languages))
	for _, l := range raw.Languages {
		langs[l] = struct{}{}
	}

	return Rule{
		ID:          raw.ID,
		Family:      family,
		Severity:    severity,
		Languages:   slices.Clone(raw.Languages),
		Scope:       scope,
		Pattern:     raw.Pattern,
		Description: raw.Description,
		Suggestion:  raw.Suggestion,
		re:          re,
		languages:   langs,
	}, nil
}
