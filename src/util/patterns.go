package util

import (
	"github.com/bmatcuk/doublestar/v4"

	"legacy-analyzer/src/config"
)

// ExclusionMatcher matches slash-separated relative paths against the
// configured exclusion globs
type ExclusionMatcher struct {
	filePatterns []string
	files        map[string]struct{}
}

// NewExclusionMatcher creates a new exclusion matcher from config.
// Invalid glob patterns are dropped with a warning.
func NewExclusionMatcher(cfg config.ExclusionsConfig) *ExclusionMatcher {
	m := &ExclusionMatcher{files: make(map[string]struct{}, len(cfg.Files))}

	for _, f := range cfg.Files {
		m.files[f] = struct{}{}
	}

	for _, p := range cfg.FilePatterns {
		if !doublestar.ValidatePattern(p) {
			Warn("Ignoring invalid exclusion pattern %q", p)
			continue
		}
		m.filePatterns = append(m.filePatterns, p)
	}

	return m
}

// Matches checks if a file should be excluded
func (m *ExclusionMatcher) Matches(path string) bool {
	if m == nil {
		return false
	}

	if _, ok := m.files[path]; ok {
		return true
	}

	for _, pattern := range m.filePatterns {
		if MatchGlob(pattern, path) {
			return true
		}
	}

	return false
}

// MatchGlob matches a path against a glob pattern, with ** spanning directories
func MatchGlob(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, path)
	return err == nil && matched
}
