package model

// Language names used by the scanner. Files recognised as dependency
// manifests are classified as LanguageConfig regardless of extension.
const (
	LanguageUnknown = "unknown"
	LanguageConfig  = "config"
)

// FileRecord describes one regular file found by the scanner
type FileRecord struct {
	Path      string  `json:"path"` // relative to the root, slash separated
	Language  string  `json:"language"`
	SizeBytes int64   `json:"size_bytes"`
	LineCount int     `json:"line_count"`
	Binary    bool    `json:"binary,omitempty"`
	Dialect   Dialect `json:"dialect,omitempty"` // set when the file is a manifest
}

// IsManifest reports whether the record should go to the dependency extractor.
func (f FileRecord) IsManifest() bool {
	return f.Dialect != "" && !f.Binary
}

// IsSource reports whether the record should go to the pattern detector.
func (f FileRecord) IsSource() bool {
	return !f.Binary && f.Language != LanguageUnknown && f.Language != LanguageConfig
}

// Stage names the pipeline step that produced a skip or warning record.
type Stage string

const (
	StageScan    Stage = "scan"
	StageExtract Stage = "extract"
	StageDetect  Stage = "detect"
)

// SkippedFile is a file that could not be processed by a stage
type SkippedFile struct {
	Path   string `json:"path"`
	Stage  Stage  `json:"stage"`
	Reason string `json:"reason"`
}

// Warning is a recovered per-file problem that did not stop the stage
type Warning struct {
	Path    string `json:"path"`
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// ScanResult is the output of a single tree walk
type ScanResult struct {
	Root      string
	Files     []FileRecord
	Skipped   []SkippedFile
	Truncated bool
}

// Manifests returns the records handled by the dependency extractor.
func (r *ScanResult) Manifests() []FileRecord {
	var out []FileRecord
	for _, f := range r.Files {
		if f.IsManifest() {
			out = append(out, f)
		}
	}
	return out
}

// Sources returns the records handled by the pattern detector.
func (r *ScanResult) Sources() []FileRecord {
	var out []FileRecord
	for _, f := range r.Files {
		if f.IsSource() {
			out = append(out, f)
		}
	}
	return out
}
