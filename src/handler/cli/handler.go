package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/service/rules"
	"legacy-analyzer/src/util"
)

// Handler handles CLI commands
type Handler struct {
	cfg        *config.Config
	configPath string
	rulesPath  string
	verbose    bool
	catalog    *rules.Catalog
	rootCmd    *cobra.Command
}

// New creates a new CLI handler
func New() *Handler {
	h := &Handler{}
	h.setupCommands()
	return h
}

func (h *Handler) setupCommands() {
	h.rootCmd = &cobra.Command{
		Use:           "legacy-analyzer",
		Short:         "Legacy code and technical debt analyzer",
		Long:          "Scans a checked-out source tree for legacy syntax, deprecated APIs, security-sensitive constructs and declared dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return h.loadConfig()
		},
	}

	// Global flags
	h.rootCmd.PersistentFlags().StringVarP(&h.configPath, "config", "c", "",
		"Path to configuration file")
	h.rootCmd.PersistentFlags().StringVar(&h.rulesPath, "rules", "",
		"Path to a YAML rule catalog (default: built-in catalog)")
	h.rootCmd.PersistentFlags().BoolVarP(&h.verbose, "verbose", "v", false,
		"Enable debug logging")

	h.rootCmd.AddCommand(h.analyzeCmd())
	h.rootCmd.AddCommand(h.rulesCmd())
	h.rootCmd.AddCommand(h.versionCmd())
}

// loadConfig resolves the configuration file and applies the persistent
// flags on top of it. Flags win over file values.
func (h *Handler) loadConfig() error {
	cfg, err := config.NewLoader().Load(h.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if h.rulesPath != "" {
		cfg.Rules.CatalogPath = h.rulesPath
	}
	if h.verbose {
		cfg.Logging.Level = "debug"
	}
	h.cfg = cfg
	h.catalog = nil

	util.SetDefaultLogger(cfg.Logging)
	util.WithFields(map[string]any{
		"config":  h.configPath,
		"level":   cfg.Logging.Level,
		"catalog": cfg.Rules.CatalogPath,
	}).Debug("configuration loaded")

	return nil
}

// loadCatalog builds the rule catalog once per process.
func (h *Handler) loadCatalog() (*rules.Catalog, error) {
	if h.catalog != nil {
		return h.catalog, nil
	}

	opts, err := rules.OptionsFromConfig(h.cfg.Rules, h.cfg.Severity)
	if err != nil {
		return nil, fmt.Errorf("rule options: %w", err)
	}
	catalog, err := rules.Load(h.cfg.Rules.CatalogPath, opts)
	if err != nil {
		return nil, fmt.Errorf("loading rule catalog: %w", err)
	}
	util.Debug("Rule catalog loaded with %d active rules", catalog.Len())

	h.catalog = catalog
	return catalog, nil
}

// Execute runs the CLI
func (h *Handler) Execute() error {
	return h.rootCmd.Execute()
}

// Run is the main entry point
func Run() {
	handler := New()
	if err := handler.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
