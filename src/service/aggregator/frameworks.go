package aggregator

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"legacy-analyzer/src/model"
)

type frameworkSignature struct {
	name string
	// legacyBelow labels majors under this value as legacy; -1 marks the
	// whole package as legacy, 0 never does.
	legacyBelow int
}

// frameworkPackages maps exact package names per ecosystem to frameworks
var frameworkPackages = map[model.Ecosystem]map[string]frameworkSignature{
	model.EcosystemPip: {
		"django":     {"Django", 2},
		"flask":      {"Flask", 1},
		"fastapi":    {"FastAPI", 0},
		"tornado":    {"Tornado", 5},
		"pyramid":    {"Pyramid", 0},
		"pylons":     {"Pylons", -1},
		"web.py":     {"web.py", -1},
		"celery":     {"Celery", 4},
		"sqlalchemy": {"SQLAlchemy", 1},
	},
	model.EcosystemNpm: {
		"react":         {"React", 16},
		"vue":           {"Vue", 3},
		"@angular/core": {"Angular", 0},
		"angular":       {"AngularJS", -1},
		"next":          {"Next.js", 0},
		"express":       {"Express", 4},
		"@nestjs/core":  {"NestJS", 0},
		"jquery":        {"jQuery", 3},
		"backbone":      {"Backbone.js", -1},
		"svelte":        {"Svelte", 0},
	},
	model.EcosystemComposer: {
		"laravel/framework": {"Laravel", 8},
		"symfony/symfony":   {"Symfony", 5},
		"cakephp/cakephp":   {"CakePHP", 3},
	},
	model.EcosystemCargo: {
		"actix-web": {"Actix Web", 0},
		"rocket":    {"Rocket", 0},
		"axum":      {"Axum", 0},
	},
	model.EcosystemGo: {
		"github.com/gin-gonic/gin":    {"Gin", 0},
		"github.com/labstack/echo/v4": {"Echo", 0},
		"github.com/gofiber/fiber/v2": {"Fiber", 0},
	},
}

// frameworkMarkers are file names that imply a framework on their own
var frameworkMarkers = map[string]string{
	"manage.py":       "Django",
	"next.config.js":  "Next.js",
	"next.config.mjs": "Next.js",
	"next.config.ts":  "Next.js",
	"angular.json":    "Angular",
}

var majorVersion = regexp.MustCompile(`\d+`)

// DetectFrameworks infers framework hints from dependency names and marker
// files. Production dependencies give high confidence; development
// dependencies and marker files give medium. Each framework appears once,
// keeping its strongest evidence, and the list is sorted by name.
func DetectFrameworks(deps []model.DependencyRecord, files []model.FileRecord) []model.Framework {
	found := make(map[string]model.Framework)
	add := func(fw model.Framework) {
		prev, ok := found[fw.Name]
		if !ok || (prev.Confidence != model.ConfidenceHigh && fw.Confidence == model.ConfidenceHigh) {
			found[fw.Name] = fw
		}
	}

	for _, d := range deps {
		sig, ok := frameworkPackages[d.Ecosystem][strings.ToLower(d.Name)]
		if !ok {
			continue
		}
		confidence := model.ConfidenceHigh
		if d.Scope == model.ScopeDevelopment {
			confidence = model.ConfidenceMedium
		}
		add(model.Framework{
			Name:       sig.name,
			Version:    d.Version,
			Confidence: confidence,
			Legacy:     isLegacy(sig, d.Version),
			Source:     d.Name,
		})
	}

	for _, f := range files {
		if name, ok := frameworkMarkers[path.Base(f.Path)]; ok {
			add(model.Framework{Name: name, Confidence: model.ConfidenceMedium, Source: f.Path})
		}
	}

	out := make([]model.Framework, 0, len(found))
	for _, fw := range found {
		out = append(out, fw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// isLegacy compares the first number in a version constraint with the
// signature's threshold. Unknown versions are not labelled.
func isLegacy(sig frameworkSignature, version string) bool {
	switch {
	case sig.legacyBelow < 0:
		return true
	case sig.legacyBelow == 0:
		return false
	}
	m := majorVersion.FindString(version)
	if m == "" {
		return false
	}
	major, err := strconv.Atoi(m)
	return err == nil && major < sig.legacyBelow
}
