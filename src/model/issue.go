package model

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a detected issue.
// Values are ordered: a larger value is more severe.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// SeverityCount is the number of defined severities. Tables indexed by
// Severity use it as their length.
const SeverityCount = int(SeverityCritical) + 1

var severityNames = [SeverityCount]string{"LOW", "MEDIUM", "HIGH", "CRITICAL"}

// Severities lists every severity from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(s string) (Severity, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return SeverityLow, fmt.Errorf("unknown severity %q", s)
}

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Family groups detection rules by what they look for
type Family string

const (
	FamilyLegacy     Family = "legacy"
	FamilySecurity   Family = "security"
	FamilyDeprecated Family = "deprecated"
)

// Families lists every rule family in report order.
var Families = []Family{FamilySecurity, FamilyLegacy, FamilyDeprecated}

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	switch f {
	case FamilyLegacy, FamilySecurity, FamilyDeprecated:
		return true
	}
	return false
}

// Issue represents a single rule match in a scanned file
type Issue struct {
	Severity    Severity `json:"severity"`
	RuleID      string   `json:"rule_id"`
	Family      Family   `json:"family"`
	FilePath    string   `json:"file"`
	Line        int      `json:"line"` // 1-based
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}
