package detector

import (
	"sort"
	"strings"

	"legacy-analyzer/src/model"
	"legacy-analyzer/src/service/rules"
)

// Detector matches catalog rules against the text of one source file.
// It holds no mutable state and is safe for concurrent use.
type Detector struct {
	catalog *rules.Catalog
}

// New creates a detector over an immutable catalog
func New(catalog *rules.Catalog) *Detector {
	return &Detector{catalog: catalog}
}

type hit struct {
	line int
	rule int
}

// Detect returns the issues found in contents, ordered by line and then by
// catalog order. The result depends only on the record's path and language,
// the contents and the catalog.
func (d *Detector) Detect(rec model.FileRecord, contents []byte) []model.Issue {
	active := d.catalog.ForLanguage(rec.Language)
	if len(active) == 0 || len(contents) == 0 {
		return nil
	}

	var lineRules, fileRules []rules.Rule
	for _, r := range active {
		if r.Scope == rules.ScopeFile {
			fileRules = append(fileRules, r)
		} else {
			lineRules = append(lineRules, r)
		}
	}

	text := string(contents)
	var (
		hits   []hit
		issues []model.Issue
	)
	add := func(line int, r *rules.Rule, match string) {
		hits = append(hits, hit{line: line, rule: r.Index()})
		issues = append(issues, model.Issue{
			Severity:    r.Severity,
			RuleID:      r.ID,
			Family:      r.Family,
			FilePath:    rec.Path,
			Line:        line,
			Description: r.Describe(match),
			Suggestion:  r.Suggestion,
		})
	}

	if len(lineRules) > 0 {
		for i, line := range strings.Split(text, "\n") {
			line = strings.TrimSuffix(line, "\r")
			for j := range lineRules {
				if m, ok := lineRules[j].MatchString(line); ok {
					add(i+1, &lineRules[j], m)
				}
			}
		}
	}

	if len(fileRules) > 0 {
		starts := lineStarts(text)
		for j := range fileRules {
			lastLine := 0
			for _, loc := range fileRules[j].FindAllIndex(text) {
				line := lineAt(starts, loc[0])
				if line == lastLine {
					continue
				}
				lastLine = line
				add(line, &fileRules[j], text[loc[0]:loc[1]])
			}
		}
	}

	order := make([]int, len(issues))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ha, hb := hits[order[a]], hits[order[b]]
		if ha.line != hb.line {
			return ha.line < hb.line
		}
		return ha.rule < hb.rule
	})

	sorted := make([]model.Issue, len(issues))
	for i, idx := range order {
		sorted[i] = issues[idx]
	}
	return sorted
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineAt converts a byte offset to a 1-based line number.
func lineAt(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}
