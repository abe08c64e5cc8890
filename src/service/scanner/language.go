package scanner

import (
	"path"
	"strings"

	"legacy-analyzer/src/model"
)

var extensionLanguages = map[string]string{
	".py":   "python",
	".pyw":  "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".go":   "go",
	".java": "java",
	".rb":   "ruby",
	".php":  "php",
	".rs":   "rust",
	".cs":   "csharp",
	".c":    "c",
	".h":    "c",
	".cc":   "cpp",
	".cpp":  "cpp",
	".cxx":  "cpp",
	".hpp":  "cpp",
	".sh":   "shell",
	".bash": "shell",
}

var manifestNames = map[string]model.Dialect{
	"requirements.txt": model.DialectRequirements,
	"pyproject.toml":   model.DialectPyproject,
	"Pipfile":          model.DialectPipfile,
	"package.json":     model.DialectPackageJSON,
	"composer.json":    model.DialectComposer,
	"Cargo.toml":       model.DialectCargo,
	"go.mod":           model.DialectGoMod,
	"Dockerfile":       model.DialectDockerfile,
	"environment.yml":  model.DialectConda,
	"environment.yaml": model.DialectConda,
}

// ManifestDialect returns the manifest dialect for a file name, or "" when
// the file is not a recognised manifest.
func ManifestDialect(name string) model.Dialect {
	if d, ok := manifestNames[name]; ok {
		return d
	}
	if strings.HasPrefix(name, "Dockerfile.") || strings.HasSuffix(name, ".Dockerfile") {
		return model.DialectDockerfile
	}
	return ""
}

// Classify returns the language and manifest dialect for a relative path.
// Manifests are always reported as model.LanguageConfig.
func Classify(relPath string) (string, model.Dialect) {
	name := path.Base(relPath)
	if d := ManifestDialect(name); d != "" {
		return model.LanguageConfig, d
	}
	if lang, ok := extensionLanguages[strings.ToLower(path.Ext(name))]; ok {
		return lang, ""
	}
	return model.LanguageUnknown, ""
}
