package model

// Scope says which manifest section declared a dependency
type Scope string

const (
	ScopeProduction  Scope = "production"
	ScopeDevelopment Scope = "development"
)

// Dialect identifies a recognised manifest format
type Dialect string

const (
	DialectRequirements Dialect = "requirements"
	DialectPyproject    Dialect = "pyproject"
	DialectPipfile      Dialect = "pipfile"
	DialectPackageJSON  Dialect = "package.json"
	DialectComposer     Dialect = "composer"
	DialectCargo        Dialect = "cargo"
	DialectGoMod        Dialect = "gomod"
	DialectDockerfile   Dialect = "dockerfile"
	DialectConda        Dialect = "conda"
)

// Ecosystem names the package universe a dependency belongs to
type Ecosystem string

const (
	EcosystemPip      Ecosystem = "pip"
	EcosystemNpm      Ecosystem = "npm"
	EcosystemComposer Ecosystem = "composer"
	EcosystemCargo    Ecosystem = "cargo"
	EcosystemGo       Ecosystem = "go"
	EcosystemDocker   Ecosystem = "docker"
	EcosystemConda    Ecosystem = "conda"
)

// DependencyRecord is one declared third-party dependency. Version holds the
// constraint exactly as written in the manifest.
type DependencyRecord struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Ecosystem Ecosystem `json:"ecosystem"`
	Scope     Scope     `json:"scope"`
}
