package extractor

import (
	"encoding/json"
	"strings"

	"legacy-analyzer/src/model"
)

type packageJSON struct {
	Dependencies         map[string]any `json:"dependencies"`
	OptionalDependencies map[string]any `json:"optionalDependencies"`
	PeerDependencies     map[string]any `json:"peerDependencies"`
	DevDependencies      map[string]any `json:"devDependencies"`
}

func parsePackageJSON(data []byte) ([]model.DependencyRecord, error) {
	var f packageJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	deps := []model.DependencyRecord{}
	deps = appendStrings(deps, f.Dependencies, model.EcosystemNpm, model.ScopeProduction, nil)
	deps = appendStrings(deps, f.OptionalDependencies, model.EcosystemNpm, model.ScopeProduction, nil)
	deps = appendStrings(deps, f.PeerDependencies, model.EcosystemNpm, model.ScopeProduction, nil)
	deps = appendStrings(deps, f.DevDependencies, model.EcosystemNpm, model.ScopeDevelopment, nil)
	return deps, nil
}

type composerJSON struct {
	Require    map[string]any `json:"require"`
	RequireDev map[string]any `json:"require-dev"`
}

func parseComposer(data []byte) ([]model.DependencyRecord, error) {
	var f composerJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	deps := []model.DependencyRecord{}
	deps = appendStrings(deps, f.Require, model.EcosystemComposer, model.ScopeProduction, isPlatformPackage)
	deps = appendStrings(deps, f.RequireDev, model.EcosystemComposer, model.ScopeDevelopment, isPlatformPackage)
	return deps, nil
}

// isPlatformPackage reports composer requirements on the runtime itself
func isPlatformPackage(name string) bool {
	n := strings.ToLower(name)
	switch n {
	case "php", "php-64bit", "php-ipv6", "php-zts", "php-debug", "hhvm",
		"composer", "composer-plugin-api", "composer-runtime-api":
		return true
	}
	return strings.HasPrefix(n, "ext-") || strings.HasPrefix(n, "lib-")
}

// appendStrings adds name -> version entries in name order. Entries whose
// value is not a string are ignored.
func appendStrings(deps []model.DependencyRecord, m map[string]any, eco model.Ecosystem, scope model.Scope, skip func(string) bool) []model.DependencyRecord {
	for _, name := range sortedKeys(m) {
		version, ok := m[name].(string)
		if !ok || (skip != nil && skip(name)) {
			continue
		}
		deps = append(deps, dep(name, version, eco, scope))
	}
	return deps
}
