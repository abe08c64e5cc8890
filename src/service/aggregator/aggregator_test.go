package aggregator

import (
	"encoding/json"
	"strings"
	"testing"

	"legacy-analyzer/src/model"
)

func files(langs ...string) []model.FileRecord {
	out := make([]model.FileRecord, len(langs))
	for i, l := range langs {
		out[i] = model.FileRecord{Path: strings.Repeat("f", i+1), Language: l, LineCount: 10}
	}
	return out
}

func issue(path string, line int, sev model.Severity) model.Issue {
	return model.Issue{FilePath: path, Line: line, Severity: sev, RuleID: "r"}
}

func TestGradeTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  model.Grade
	}{
		{100, model.GradeA},
		{80, model.GradeA},
		{79, model.GradeB},
		{60, model.GradeB},
		{59, model.GradeC},
		{40, model.GradeC},
		{39, model.GradeD},
		{20, model.GradeD},
		{19, model.GradeF},
		{0, model.GradeF},
		{-5, model.GradeF},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Errorf("GradeFor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestScoreAndHours(t *testing.T) {
	t.Parallel()

	issues := []model.Issue{
		issue("a", 1, model.SeverityCritical),
		issue("a", 2, model.SeverityHigh),
		issue("a", 3, model.SeverityMedium),
		issue("a", 4, model.SeverityLow),
	}
	if got := Score(issues); got != 82 {
		t.Errorf("Score = %d, want 82", got)
	}
	if got := RemediationHours(issues); got != 7.5 {
		t.Errorf("RemediationHours = %v, want 7.5", got)
	}

	many := make([]model.Issue, 20)
	for i := range many {
		many[i] = issue("a", i+1, model.SeverityCritical)
	}
	if got := Score(many); got != 0 {
		t.Errorf("Score floor = %d, want 0", got)
	}

	if got := RemediationHours([]model.Issue{issue("a", 1, model.SeverityLow)}); got != 0.5 {
		t.Errorf("RemediationHours = %v, want 0.5", got)
	}
}

func TestLanguageStatsSumTo100(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"python"},
		{"python", "go", "rust"},
		{"python", "python", "go", "rust", "c", "c", "c"},
		{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
		{"python", "unknown", "config", "config"},
	}
	for _, langs := range cases {
		stats := LanguageStats(files(langs...))
		sumPct, sumCount := 0, 0
		for _, s := range stats {
			sumPct += s.Percentage
			sumCount += s.FileCount
			if s.Percentage < 0 {
				t.Errorf("%v: negative percentage %+v", langs, s)
			}
		}
		if sumPct != 100 || sumCount != len(langs) {
			t.Errorf("%v: percentages sum %d, counts sum %d", langs, sumPct, sumCount)
		}
	}
}

func TestLanguageStatsOrderAndRounding(t *testing.T) {
	t.Parallel()

	stats := LanguageStats(files("python", "python", "go", "rust", "c", "c", "c"))
	want := []model.LanguageStat{
		{Name: "c", FileCount: 3, Percentage: 43},
		{Name: "python", FileCount: 2, Percentage: 29},
		{Name: "go", FileCount: 1, Percentage: 14},
		{Name: "rust", FileCount: 1, Percentage: 14},
	}
	if len(stats) != len(want) {
		t.Fatalf("got %+v", stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stat %d = %+v, want %+v", i, stats[i], want[i])
		}
	}

	thirds := LanguageStats(files("go", "python", "rust"))
	if thirds[0].Name != "go" || thirds[0].Percentage != 34 || thirds[1].Percentage != 33 || thirds[2].Percentage != 33 {
		t.Errorf("thirds = %+v", thirds)
	}
}

func TestAggregateEmptyDirectory(t *testing.T) {
	t.Parallel()

	report := Aggregate(Input{Scan: &model.ScanResult{Root: "/tmp/empty"}})
	if report.TotalFiles != 0 || report.TotalLines != 0 {
		t.Errorf("totals = %d files, %d lines", report.TotalFiles, report.TotalLines)
	}
	if report.MaintainabilityScore != 100 || report.Grade != model.GradeA || report.EstimatedRemediationHours != 0 {
		t.Errorf("score = %d grade = %s hours = %v", report.MaintainabilityScore, report.Grade, report.EstimatedRemediationHours)
	}
	if report.Recommendation != "Excellent! Code is modern and maintainable." {
		t.Errorf("recommendation = %q", report.Recommendation)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"languages":[]`, `"issues":[]`, `"dependencies":[]`, `"frameworks":[]`, `"truncated":false`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("JSON missing %s: %s", field, data)
		}
	}
}

func TestAggregateNormalizesIssues(t *testing.T) {
	t.Parallel()

	scan := &model.ScanResult{
		Files: []model.FileRecord{
			{Path: "b.py", Language: "python", LineCount: 5},
			{Path: "a.py", Language: "python", LineCount: 7},
		},
		Skipped: []model.SkippedFile{{Path: "link", Stage: model.StageScan, Reason: "symbolic link not followed"}},
	}
	in := Input{
		Scan: scan,
		Issues: []model.Issue{
			{FilePath: "b.py", Line: 2, RuleID: "x", Severity: model.SeverityLow},
			{FilePath: "a.py", Line: 9, RuleID: "y", Severity: model.SeverityHigh},
			{FilePath: "b.py", Line: 2, RuleID: "w", Severity: model.SeverityLow},
			{FilePath: "ghost.py", Line: 1, RuleID: "z", Severity: model.SeverityCritical},
			{FilePath: "b.py", Line: 1, RuleID: "v", Severity: model.SeverityMedium},
		},
		Skipped:   []model.SkippedFile{{Path: "big.py", Stage: model.StageDetect, Reason: "too big"}},
		Truncated: true,
	}

	report := Aggregate(in)

	var got []string
	for _, is := range report.Issues {
		got = append(got, is.FilePath+":"+is.RuleID)
	}
	want := "a.py:y b.py:v b.py:x b.py:w"
	if strings.Join(got, " ") != want {
		t.Errorf("issues = %v, want %s", got, want)
	}
	if report.TotalLines != 12 || report.TotalFiles != 2 {
		t.Errorf("totals = %d files %d lines", report.TotalFiles, report.TotalLines)
	}
	if report.MaintainabilityScore != 100-5-1-1-2 {
		t.Errorf("score = %d", report.MaintainabilityScore)
	}
	if !report.Truncated {
		t.Error("truncation from a later stage lost")
	}
	if len(report.Skipped) != 2 || report.Skipped[0].Path != "link" || report.Skipped[1].Path != "big.py" {
		t.Errorf("skipped = %+v", report.Skipped)
	}
}

func TestDetectFrameworks(t *testing.T) {
	t.Parallel()

	deps := []model.DependencyRecord{
		{Name: "Django", Version: "==1.11.29", Ecosystem: model.EcosystemPip, Scope: model.ScopeProduction},
		{Name: "angular", Version: "1.5.0", Ecosystem: model.EcosystemNpm, Scope: model.ScopeProduction},
		{Name: "react", Version: "^18.2.0", Ecosystem: model.EcosystemNpm, Scope: model.ScopeDevelopment},
		{Name: "react", Version: "^18.2.0", Ecosystem: model.EcosystemNpm, Scope: model.ScopeProduction},
		{Name: "next", Version: "13", Ecosystem: model.EcosystemPip, Scope: model.ScopeProduction},
		{Name: "left-pad", Version: "1.0.0", Ecosystem: model.EcosystemNpm, Scope: model.ScopeProduction},
	}
	scanned := []model.FileRecord{
		{Path: "manage.py", Language: "python"},
		{Path: "web/next.config.mjs", Language: "javascript"},
	}

	fws := DetectFrameworks(deps, scanned)
	want := []model.Framework{
		{Name: "AngularJS", Version: "1.5.0", Confidence: model.ConfidenceHigh, Legacy: true, Source: "angular"},
		{Name: "Django", Version: "==1.11.29", Confidence: model.ConfidenceHigh, Legacy: true, Source: "Django"},
		{Name: "Next.js", Confidence: model.ConfidenceMedium, Source: "web/next.config.mjs"},
		{Name: "React", Version: "^18.2.0", Confidence: model.ConfidenceHigh, Source: "react"},
	}
	if len(fws) != len(want) {
		t.Fatalf("got %+v", fws)
	}
	for i := range want {
		if fws[i] != want[i] {
			t.Errorf("framework %d = %+v, want %+v", i, fws[i], want[i])
		}
	}

	if got := DetectFrameworks(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("empty input = %#v, want empty slice", got)
	}
}

func TestIsLegacy(t *testing.T) {
	t.Parallel()

	django := frameworkPackages[model.EcosystemPip]["django"]
	cases := map[string]bool{
		"==1.11":  true,
		">=2.2":   false,
		"^4.0":    false,
		"":        false,
		"*":       false,
		"~=1.8.0": true,
	}
	for version, want := range cases {
		if got := isLegacy(django, version); got != want {
			t.Errorf("isLegacy(django, %q) = %v, want %v", version, got, want)
		}
	}
}
