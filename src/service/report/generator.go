package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/util"
)

// Formats lists the supported output formats
var Formats = []string{"json", "markdown", "sarif"}

// Generator generates reports in various formats
type Generator struct {
	cfg   config.OutputConfig
	agent config.AgentConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig, agent config.AgentConfig) *Generator {
	return &Generator{cfg: cfg, agent: agent}
}

// Extension returns the file extension used for a format.
func Extension(format string) string {
	switch format {
	case "markdown", "md":
		return "md"
	case "sarif":
		return "sarif.json"
	}
	return format
}

// Generate generates a report in the specified format
func (g *Generator) Generate(report *model.AnalysisReport, format string) (string, error) {
	util.Debug("Generating report in %s format (%d issues)", format, len(report.Issues))
	switch format {
	case "json":
		return g.generateJSON(report)
	case "markdown", "md":
		return g.generateMarkdown(report), nil
	case "sarif":
		return g.generateSARIF(report)
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateJSON(report *model.AnalysisReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Hotspot is a file ranked by its number of issues
type Hotspot struct {
	FilePath   string
	IssueCount int
}

// Hotspots returns the n files with the most issues, ties broken by path.
func Hotspots(issues []model.Issue, n int) []Hotspot {
	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.FilePath]++
	}

	spots := make([]Hotspot, 0, len(counts))
	for path, c := range counts {
		spots = append(spots, Hotspot{FilePath: path, IssueCount: c})
	}
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].IssueCount != spots[j].IssueCount {
			return spots[i].IssueCount > spots[j].IssueCount
		}
		return spots[i].FilePath < spots[j].FilePath
	})

	if n > 0 && n < len(spots) {
		spots = spots[:n]
	}
	return spots
}

func (g *Generator) generateMarkdown(report *model.AnalysisReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Legacy Code Analysis Report\n\n")
	if report.RepoName != "" {
		sb.WriteString(fmt.Sprintf("**Repository:** %s\n\n", report.RepoName))
	}
	if report.Truncated {
		sb.WriteString("> **Note:** the analysis stopped early (file cap or deadline); results are partial.\n\n")
	}

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Files:** %d\n", report.TotalFiles))
	sb.WriteString(fmt.Sprintf("- **Lines:** %d\n", report.TotalLines))
	sb.WriteString(fmt.Sprintf("- **Issues:** %d\n", len(report.Issues)))
	sb.WriteString(fmt.Sprintf("- **Maintainability Score:** %d/100 (grade %s)\n", report.MaintainabilityScore, report.Grade))
	sb.WriteString(fmt.Sprintf("- **Estimated Remediation:** %.1f hours\n", report.EstimatedRemediationHours))
	sb.WriteString(fmt.Sprintf("- **Recommendation:** %s\n\n", report.Recommendation))

	// By Severity
	counts := report.SeverityCounts()
	sb.WriteString("### Issues by Severity\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range model.Severities {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, counts[sev]))
	}
	sb.WriteString("\n")

	// Languages
	if len(report.Languages) > 0 {
		sb.WriteString("## Languages\n\n")
		sb.WriteString("| Language | Files | Share |\n")
		sb.WriteString("|----------|-------|-------|\n")
		for _, l := range report.Languages {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d%% |\n", l.Name, l.FileCount, l.Percentage))
		}
		sb.WriteString("\n")
	}

	// Frameworks
	if len(report.Frameworks) > 0 {
		sb.WriteString("## Frameworks\n\n")
		sb.WriteString("| Framework | Version | Confidence | Source |\n")
		sb.WriteString("|-----------|---------|------------|--------|\n")
		for _, fw := range report.Frameworks {
			name := fw.Name
			if fw.Legacy {
				name += " (legacy)"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | `%s` |\n", name, orDash(fw.Version), fw.Confidence, fw.Source))
		}
		sb.WriteString("\n")
	}

	// Dependencies
	if len(report.Dependencies) > 0 {
		g.writeDependencies(&sb, report.Dependencies)
	}

	// Hotspots
	if spots := Hotspots(report.Issues, g.cfg.HotspotsTopN); len(spots) > 0 {
		sb.WriteString("### Hotspot Files\n\n")
		sb.WriteString("| File | Issue Count |\n")
		sb.WriteString("|------|-------------|\n")
		for _, hs := range spots {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", hs.FilePath, hs.IssueCount))
		}
		sb.WriteString("\n")
	}

	// Issues by family
	sb.WriteString("## Issues\n\n")
	if len(report.Issues) == 0 {
		sb.WriteString("No issues found.\n\n")
	}

	byFamily := make(map[model.Family][]model.Issue)
	for _, issue := range report.Issues {
		byFamily[issue.Family] = append(byFamily[issue.Family], issue)
	}

	for _, fam := range model.Families {
		issues := byFamily[fam]
		if len(issues) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s (%d issues)\n\n", familyTitle(fam), len(issues)))
		for _, issue := range issues {
			sb.WriteString(fmt.Sprintf("- %s `%s:%d` %s (`%s`)\n",
				severityLabel(issue.Severity), issue.FilePath, issue.Line, issue.Description, issue.RuleID))
			if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("  - **Suggestion:** %s\n", issue.Suggestion))
			}
		}
		sb.WriteString("\n")
	}

	if len(report.Skipped) > 0 || len(report.Warnings) > 0 {
		sb.WriteString("## Processing Notes\n\n")
		for _, s := range report.Skipped {
			sb.WriteString(fmt.Sprintf("- Skipped `%s` (%s): %s\n", s.Path, s.Stage, s.Reason))
		}
		for _, w := range report.Warnings {
			sb.WriteString(fmt.Sprintf("- Warning `%s` (%s): %s\n", w.Path, w.Stage, w.Message))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (g *Generator) writeDependencies(sb *strings.Builder, deps []model.DependencyRecord) {
	type key struct {
		eco   model.Ecosystem
		scope model.Scope
	}
	counts := make(map[key]int)
	for _, d := range deps {
		counts[key{d.Ecosystem, d.Scope}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].eco != keys[j].eco {
			return keys[i].eco < keys[j].eco
		}
		return keys[i].scope < keys[j].scope
	})

	sb.WriteString(fmt.Sprintf("## Dependencies (%d)\n\n", len(deps)))
	sb.WriteString("| Ecosystem | Scope | Count |\n")
	sb.WriteString("|-----------|-------|-------|\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", k.eco, k.scope, counts[k]))
	}
	sb.WriteString("\n")
}

func (g *Generator) generateSARIF(report *model.AnalysisReport) (string, error) {
	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    g.agent.Name,
						"version": g.agent.Version,
						"rules":   g.buildSARIFRules(report.Issues),
					},
				},
				"results": g.buildSARIFResults(report.Issues),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFRules(issues []model.Issue) []map[string]any {
	seen := make(map[string]bool)
	rules := []map[string]any{}

	for _, issue := range issues {
		if seen[issue.RuleID] {
			continue
		}
		seen[issue.RuleID] = true

		rule := map[string]any{
			"id": issue.RuleID,
			"shortDescription": map[string]any{
				"text": issue.Description,
			},
			"defaultConfiguration": map[string]any{
				"level": sarifLevel(issue.Severity),
			},
			"properties": map[string]any{
				"family": string(issue.Family),
			},
		}
		if issue.Suggestion != "" {
			rule["help"] = map[string]any{"text": issue.Suggestion}
		}
		rules = append(rules, rule)
	}

	return rules
}

func (g *Generator) buildSARIFResults(issues []model.Issue) []map[string]any {
	results := []map[string]any{}

	for _, issue := range issues {
		results = append(results, map[string]any{
			"ruleId":  issue.RuleID,
			"level":   sarifLevel(issue.Severity),
			"message": map[string]any{"text": issue.Description},
			"locations": []map[string]any{
				{
					"physicalLocation": map[string]any{
						"artifactLocation": map[string]any{
							"uri": issue.FilePath,
						},
						"region": map[string]any{
							"startLine": issue.Line,
						},
					},
				},
			},
		})
	}

	return results
}

func familyTitle(f model.Family) string {
	switch f {
	case model.FamilySecurity:
		return "Security"
	case model.FamilyLegacy:
		return "Legacy Syntax"
	case model.FamilyDeprecated:
		return "Deprecated APIs"
	}
	return string(f)
}

func severityLabel(s model.Severity) string {
	return "[" + s.String() + "]"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
