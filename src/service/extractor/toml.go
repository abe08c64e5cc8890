package extractor

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"legacy-analyzer/src/model"
)

type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(data []byte) ([]model.DependencyRecord, error) {
	var f pyprojectFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	deps := []model.DependencyRecord{}
	addPEP508 := func(specs []string, scope model.Scope) {
		for _, s := range specs {
			if name, version, ok := parseRequirement(s); ok {
				deps = append(deps, dep(name, version, model.EcosystemPip, scope))
			}
		}
	}

	addPEP508(f.Project.Dependencies, model.ScopeProduction)
	for _, extra := range sortedKeys(f.Project.OptionalDependencies) {
		addPEP508(f.Project.OptionalDependencies[extra], model.ScopeProduction)
	}

	poetry := f.Tool.Poetry
	deps = appendTable(deps, poetry.Dependencies, model.EcosystemPip, model.ScopeProduction, "python")

	for _, group := range sortedKeys(f.DependencyGroups) {
		var specs []string
		for _, entry := range f.DependencyGroups[group] {
			// {include-group = "..."} tables reference other groups
			if s, ok := entry.(string); ok {
				specs = append(specs, s)
			}
		}
		addPEP508(specs, model.ScopeDevelopment)
	}

	deps = appendTable(deps, poetry.DevDependencies, model.EcosystemPip, model.ScopeDevelopment, "python")
	for _, group := range sortedKeys(poetry.Group) {
		deps = appendTable(deps, poetry.Group[group].Dependencies, model.EcosystemPip, model.ScopeDevelopment, "python")
	}

	return deps, nil
}

type pipfile struct {
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

func parsePipfile(data []byte) ([]model.DependencyRecord, error) {
	var f pipfile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	deps := []model.DependencyRecord{}
	deps = appendTable(deps, f.Packages, model.EcosystemPip, model.ScopeProduction, "")
	deps = appendTable(deps, f.DevPackages, model.EcosystemPip, model.ScopeDevelopment, "")
	return deps, nil
}

type cargoDeps struct {
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

type cargoFile struct {
	Dependencies      map[string]any       `toml:"dependencies"`
	DevDependencies   map[string]any       `toml:"dev-dependencies"`
	BuildDependencies map[string]any       `toml:"build-dependencies"`
	Target            map[string]cargoDeps `toml:"target"`
}

func parseCargo(data []byte) ([]model.DependencyRecord, error) {
	var f cargoFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	sections := []cargoDeps{{
		Dependencies:      f.Dependencies,
		DevDependencies:   f.DevDependencies,
		BuildDependencies: f.BuildDependencies,
	}}
	for _, target := range sortedKeys(f.Target) {
		sections = append(sections, f.Target[target])
	}

	deps := []model.DependencyRecord{}
	for _, s := range sections {
		deps = appendTable(deps, s.Dependencies, model.EcosystemCargo, model.ScopeProduction, "")
	}
	for _, s := range sections {
		deps = appendTable(deps, s.DevDependencies, model.EcosystemCargo, model.ScopeDevelopment, "")
		deps = appendTable(deps, s.BuildDependencies, model.EcosystemCargo, model.ScopeDevelopment, "")
	}
	return deps, nil
}

// appendTable adds the entries of a name -> spec table in name order. A spec
// is either a version string or a table with an optional "version" key.
func appendTable(deps []model.DependencyRecord, table map[string]any, eco model.Ecosystem, scope model.Scope, skip string) []model.DependencyRecord {
	for _, name := range sortedKeys(table) {
		if skip != "" && strings.EqualFold(name, skip) {
			continue
		}
		deps = append(deps, dep(name, tableVersion(table[name]), eco, scope))
	}
	return deps
}

func tableVersion(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val["version"].(string); ok {
			return s
		}
	}
	return ""
}
