package model

// Grade is the letter summary of a maintainability score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// LanguageStat is the share of scanned files in one language
type LanguageStat struct {
	Name       string `json:"name"`
	FileCount  int    `json:"file_count"`
	Percentage int    `json:"percentage"`
}

// Confidence labels how a framework hint was inferred
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Framework is an informational hint derived from dependencies or marker files
type Framework struct {
	Name       string     `json:"name"`
	Version    string     `json:"version,omitempty"`
	Confidence Confidence `json:"confidence"`
	Legacy     bool       `json:"legacy,omitempty"`
	Source     string     `json:"source"` // dependency name or marker file
}

// AnalysisReport represents the complete analysis output
type AnalysisReport struct {
	RepoName                  string             `json:"repo_name,omitempty"`
	TotalFiles                int                `json:"total_files"`
	TotalLines                int                `json:"total_lines"`
	Languages                 []LanguageStat     `json:"languages"`
	Frameworks                []Framework        `json:"frameworks"`
	Dependencies              []DependencyRecord `json:"dependencies"`
	Issues                    []Issue            `json:"issues"`
	MaintainabilityScore      int                `json:"maintainability_score"`
	Grade                     Grade              `json:"grade"`
	EstimatedRemediationHours float64            `json:"estimated_remediation_hours"`
	Recommendation            string             `json:"recommendation"`
	Truncated                 bool               `json:"truncated"`
	Skipped                   []SkippedFile      `json:"skipped,omitempty"`
	Warnings                  []Warning          `json:"warnings,omitempty"`
}

// SeverityCounts tallies the report's issues per severity.
func (r *AnalysisReport) SeverityCounts() [SeverityCount]int {
	var counts [SeverityCount]int
	for _, issue := range r.Issues {
		if issue.Severity.Valid() {
			counts[issue.Severity]++
		}
	}
	return counts
}
