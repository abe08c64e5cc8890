// Package aggregator folds scan, dependency and detection results into one
// consistent report.
package aggregator

import (
	"math"
	"sort"

	"legacy-analyzer/src/model"
)

// Input is everything the aggregator needs for one report
type Input struct {
	RepoName     string
	Scan         *model.ScanResult
	Dependencies []model.DependencyRecord
	Issues       []model.Issue
	Skipped      []model.SkippedFile // from the extract and detect stages
	Warnings     []model.Warning
	Truncated    bool // a later stage stopped early
}

// severityPenalty is subtracted from 100 per issue
var severityPenalty = [model.SeverityCount]int{
	model.SeverityLow:      1,
	model.SeverityMedium:   2,
	model.SeverityHigh:     5,
	model.SeverityCritical: 10,
}

// severityHours is the estimated remediation effort per issue
var severityHours = [model.SeverityCount]float64{
	model.SeverityLow:      0.5,
	model.SeverityMedium:   1,
	model.SeverityHigh:     2,
	model.SeverityCritical: 4,
}

// gradeTable is ordered by descending lower bound; the first row whose
// bound the score reaches wins.
var gradeTable = []struct {
	min            int
	grade          model.Grade
	recommendation string
}{
	{80, model.GradeA, "Excellent! Code is modern and maintainable."},
	{60, model.GradeB, "Good code quality. Minor improvements recommended."},
	{40, model.GradeC, "Moderate technical debt. Consider refactoring."},
	{20, model.GradeD, "Significant technical debt. Refactoring recommended."},
	{0, model.GradeF, "Critical technical debt. Immediate modernization required."},
}

// Aggregate builds the report. It never fails: every input combination
// yields a report whose totals agree with its language table.
func Aggregate(in Input) *model.AnalysisReport {
	scan := in.Scan
	if scan == nil {
		scan = &model.ScanResult{}
	}

	report := &model.AnalysisReport{
		RepoName:     in.RepoName,
		TotalFiles:   len(scan.Files),
		Languages:    LanguageStats(scan.Files),
		Frameworks:   DetectFrameworks(in.Dependencies, scan.Files),
		Dependencies: nonNil(in.Dependencies),
		Issues:       normalizeIssues(in.Issues, scan.Files),
		Truncated:    scan.Truncated || in.Truncated,
	}
	for _, f := range scan.Files {
		report.TotalLines += f.LineCount
	}

	report.MaintainabilityScore = Score(report.Issues)
	report.Grade = GradeFor(report.MaintainabilityScore)
	report.Recommendation = Recommendation(report.Grade)
	report.EstimatedRemediationHours = RemediationHours(report.Issues)

	report.Skipped = append(append([]model.SkippedFile{}, scan.Skipped...), in.Skipped...)
	if len(report.Skipped) == 0 {
		report.Skipped = nil
	}
	report.Warnings = in.Warnings

	return report
}

// LanguageStats counts files per language. Percentages are integers that
// sum to exactly 100 for a non-empty list: each language gets its floored
// share and the remaining points go to the largest remainders (ties to the
// larger count, then the name). The list is ordered by count, then name.
func LanguageStats(files []model.FileRecord) []model.LanguageStat {
	stats := []model.LanguageStat{}
	if len(files) == 0 {
		return stats
	}

	counts := make(map[string]int)
	for _, f := range files {
		counts[f.Language]++
	}

	total := len(files)
	remainders := make(map[string]int, len(counts))
	assigned := 0
	for name, n := range counts {
		pct := n * 100 / total
		stats = append(stats, model.LanguageStat{Name: name, FileCount: n, Percentage: pct})
		remainders[name] = n * 100 % total
		assigned += pct
	}

	sort.Slice(stats, func(i, j int) bool {
		ri, rj := remainders[stats[i].Name], remainders[stats[j].Name]
		if ri != rj {
			return ri > rj
		}
		return byCountThenName(stats[i], stats[j])
	})
	for i := 0; assigned < 100; i = (i + 1) % len(stats) {
		stats[i].Percentage++
		assigned++
	}

	sort.Slice(stats, func(i, j int) bool { return byCountThenName(stats[i], stats[j]) })
	return stats
}

func byCountThenName(a, b model.LanguageStat) bool {
	if a.FileCount != b.FileCount {
		return a.FileCount > b.FileCount
	}
	return a.Name < b.Name
}

// Score is 100 minus the severity penalties, floored at 0.
func Score(issues []model.Issue) int {
	score := 100
	for _, issue := range issues {
		if issue.Severity.Valid() {
			score -= severityPenalty[issue.Severity]
		}
	}
	return max(score, 0)
}

// GradeFor maps a score onto the grade table.
func GradeFor(score int) model.Grade {
	for _, row := range gradeTable {
		if score >= row.min {
			return row.grade
		}
	}
	return model.GradeF
}

// Recommendation returns the advice text for a grade.
func Recommendation(grade model.Grade) string {
	for _, row := range gradeTable {
		if row.grade == grade {
			return row.recommendation
		}
	}
	return ""
}

// RemediationHours sums the per-severity effort, rounded to one decimal.
func RemediationHours(issues []model.Issue) float64 {
	var hours float64
	for _, issue := range issues {
		if issue.Severity.Valid() {
			hours += severityHours[issue.Severity]
		}
	}
	return math.Round(hours*10) / 10
}

// normalizeIssues drops issues for paths that were not scanned and sorts
// the rest by path and line, keeping the detector's order within a line.
func normalizeIssues(issues []model.Issue, files []model.FileRecord) []model.Issue {
	scanned := make(map[string]struct{}, len(files))
	for _, f := range files {
		scanned[f.Path] = struct{}{}
	}

	out := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if _, ok := scanned[issue.FilePath]; ok && issue.Line >= 1 {
			out = append(out, issue)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FilePath != out[j].FilePath {
			return out[i].FilePath < out[j].FilePath
		}
		return out[i].Line < out[j].Line
	})
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
