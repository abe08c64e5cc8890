package config

import "time"

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Scanner     ScannerConfig     `yaml:"scanner"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Limits      LimitsConfig      `yaml:"limits"`
	Rules       RulesConfig       `yaml:"rules"`
	Exclusions  ExclusionsConfig  `yaml:"exclusions"`
	Severity    SeverityConfig    `yaml:"severity"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AgentConfig contains agent metadata
type AgentConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// ScannerConfig contains file discovery settings
type ScannerConfig struct {
	MaxFiles         int      `yaml:"max_files"`
	IgnoreDirs       []string `yaml:"ignore_dirs"` // added to the built-in ignore list
	RespectGitignore bool     `yaml:"respect_gitignore"`
	BinarySniffBytes int      `yaml:"binary_sniff_bytes"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"` // 0 means runtime.NumCPU()
}

// LimitsConfig bounds a single analysis run
type LimitsConfig struct {
	Timeout      time.Duration `yaml:"timeout"` // 0 disables the wall-clock limit
	MaxFileBytes int64         `yaml:"max_file_bytes"`
}

// RulesConfig selects the rule catalog
type RulesConfig struct {
	CatalogPath string   `yaml:"catalog_path"` // empty uses the built-in catalog
	Disabled    []string `yaml:"disabled"`
}

// ExclusionsConfig contains exclusion patterns
type ExclusionsConfig struct {
	FilePatterns []string `yaml:"file_patterns"`
	Files        []string `yaml:"files"`
}

// SeverityConfig contains severity settings
type SeverityConfig struct {
	MinSeverity string            `yaml:"min_severity"`
	Overrides   map[string]string `yaml:"overrides"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	Formats            []string `yaml:"formats"`
	OutputDir          string   `yaml:"output_dir"`
	IncludeSuggestions bool     `yaml:"include_suggestions"`
	HotspotsTopN       int      `yaml:"hotspots_top_n"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // text, json
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
}
