package extractor

import (
	"golang.org/x/mod/modfile"

	"legacy-analyzer/src/model"
)

// parseGoMod reads require directives. Indirect requirements are still
// declared by the module and are reported like direct ones.
func parseGoMod(data []byte) ([]model.DependencyRecord, error) {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return nil, err
	}

	deps := make([]model.DependencyRecord, 0, len(f.Require))
	for _, r := range f.Require {
		deps = append(deps, dep(r.Mod.Path, r.Mod.Version, model.EcosystemGo, model.ScopeProduction))
	}
	return deps, nil
}
