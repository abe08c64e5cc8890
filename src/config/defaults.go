package config

import "time"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "legacy-analyzer",
			Version:     "1.0.0",
			Description: "Legacy code and technical debt analysis engine",
		},
		Scanner: ScannerConfig{
			MaxFiles:         2000,
			RespectGitignore: true,
			BinarySniffBytes: 8000,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 0,
		},
		Limits: LimitsConfig{
			Timeout:      5 * time.Minute,
			MaxFileBytes: 1_000_000,
		},
		Rules: RulesConfig{},
		Exclusions: ExclusionsConfig{
			FilePatterns: []string{"**/*.min.js"},
		},
		Severity: SeverityConfig{
			MinSeverity: "low",
			Overrides:   map[string]string{},
		},
		Output: OutputConfig{
			Formats:            []string{"json"},
			OutputDir:          ".",
			IncludeSuggestions: true,
			HotspotsTopN:       10,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
		},
	}
}
