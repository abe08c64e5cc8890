package extractor

import (
	"strings"

	"gopkg.in/yaml.v3"

	"legacy-analyzer/src/model"
)

type condaEnvironment struct {
	Dependencies []any `yaml:"dependencies"`
}

// parseConda reads a conda environment file. Plain entries are conda
// packages; a nested {pip: [...]} list holds pip requirements. The python
// interpreter entry is not reported.
func parseConda(data []byte) ([]model.DependencyRecord, error) {
	var env condaEnvironment
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	deps := []model.DependencyRecord{}
	var pip []model.DependencyRecord

	for _, entry := range env.Dependencies {
		switch v := entry.(type) {
		case string:
			name, version := splitCondaSpec(v)
			if name == "" || strings.EqualFold(name, "python") {
				continue
			}
			deps = append(deps, dep(name, version, model.EcosystemConda, model.ScopeProduction))
		case map[string]any:
			list, _ := v["pip"].([]any)
			for _, item := range list {
				s, ok := item.(string)
				if !ok || strings.HasPrefix(strings.TrimSpace(s), "-") {
					continue
				}
				if name, version, ok := parseRequirement(s); ok {
					pip = append(pip, dep(name, version, model.EcosystemPip, model.ScopeProduction))
				}
			}
		}
	}

	return append(deps, pip...), nil
}

// splitCondaSpec splits "channel::name>=1.0" into name and constraint.
func splitCondaSpec(spec string) (name, version string) {
	spec = strings.TrimSpace(spec)
	if i := strings.LastIndex(spec, "::"); i >= 0 {
		spec = spec[i+2:]
	}
	if i := strings.IndexAny(spec, "=<>!~ "); i >= 0 {
		return spec[:i], strings.TrimSpace(spec[i:])
	}
	return spec, ""
}
