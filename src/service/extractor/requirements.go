package extractor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"legacy-analyzer/src/model"
)

// ErrUnparsedLines reports requirement lines that were not understood
var ErrUnparsedLines = errors.New("unparsed requirement lines")

// requirementPattern splits a PEP 508 requirement into name, extras and
// the rest of the line (constraint, URL or markers).
var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(\[[^\]]*\])?\s*(.*)$`)

// parseRequirement returns the name and raw constraint of one requirement.
func parseRequirement(s string) (name, version string, ok bool) {
	m := requirementPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	rest := strings.TrimSpace(m[3])
	if rest != "" && !strings.ContainsAny(rest[:1], "=<>!~@;(") {
		return "", "", false
	}
	return m[1], rest, true
}

func parseRequirements(data []byte) ([]model.DependencyRecord, error) {
	deps := []model.DependencyRecord{}
	var bad []string

	for i, line := range logicalLines(string(data)) {
		line = stripComment(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		// per-requirement options such as --hash
		if j := strings.Index(line, " --"); j >= 0 {
			line = strings.TrimSpace(line[:j])
		}
		name, version, ok := parseRequirement(line)
		if !ok {
			bad = append(bad, fmt.Sprint(i+1))
			continue
		}
		deps = append(deps, dep(name, version, model.EcosystemPip, model.ScopeProduction))
	}

	if len(bad) > 0 {
		return deps, fmt.Errorf("%w: entries %s", ErrUnparsedLines, strings.Join(bad, ", "))
	}
	return deps, nil
}

// logicalLines joins backslash continuations.
func logicalLines(s string) []string {
	var out []string
	var cur strings.Builder
	for _, raw := range strings.Split(s, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.HasSuffix(raw, `\`) {
			cur.WriteString(strings.TrimSuffix(raw, `\`))
			cur.WriteByte(' ')
			continue
		}
		cur.WriteString(raw)
		out = append(out, cur.String())
		cur.Reset()
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = line[:i]
	}
	if i := strings.Index(line, "\t#"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
