package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"legacy-analyzer/src/controller"
	"legacy-analyzer/src/util"
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		repoName  string
		outputDir string
		format    string
		timeout   time.Duration
		maxFiles  int
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Analyze a source tree",
		Long:  "Scans the tree at path (default: current directory), extracts dependencies, runs the rule catalog and prints or writes the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			flags := cmd.Flags()
			if flags.Changed("timeout") {
				h.cfg.Limits.Timeout = timeout
			}
			if flags.Changed("max-files") {
				h.cfg.Scanner.MaxFiles = maxFiles
			}
			if flags.Changed("workers") {
				h.cfg.Concurrency.Workers = workers
			}

			catalog, err := h.loadCatalog()
			if err != nil {
				return err
			}

			util.Info("Analyzing %s (timeout: %v)", root, h.cfg.Limits.Timeout)

			analysisCtrl := controller.NewAnalysisController(h.cfg, catalog)
			report, err := analysisCtrl.Analyze(context.Background(), controller.AnalyzeRequest{
				Root:     root,
				RepoName: repoName,
			})
			if err != nil {
				util.Error("Analysis failed: %v", err)
				return fmt.Errorf("analysis failed: %w", err)
			}

			reportCtrl := controller.NewReportController(h.cfg)
			if outputDir != "" {
				h.cfg.Output.OutputDir = outputDir
				if format != "" {
					h.cfg.Output.Formats = []string{format}
				}

				paths, err := reportCtrl.GenerateReports(report)
				if err != nil {
					return fmt.Errorf("generating reports: %w", err)
				}
				for _, path := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				}
			} else {
				outputFormat := format
				if outputFormat == "" {
					outputFormat = "json"
				}
				output, err := reportCtrl.GenerateToString(report, outputFormat)
				if err != nil {
					return fmt.Errorf("generating report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}

			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "\nAnalysis complete:\n")
			fmt.Fprintf(errOut, "  Files: %d, issues: %d, dependencies: %d\n", report.TotalFiles, len(report.Issues), len(report.Dependencies))
			fmt.Fprintf(errOut, "  Maintainability: %d/100 (grade %s)\n", report.MaintainabilityScore, report.Grade)
			if report.Truncated {
				fmt.Fprintf(errOut, "  Results are partial: the file cap or deadline was reached\n")
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&repoName, "name", "n", "", "Repository name used in reports (default: directory name)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory path")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, sarif)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "Analysis timeout (0 disables)")
	cmd.Flags().IntVar(&maxFiles, "max-files", 2000, "Maximum number of files to scan (0 disables)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines per stage (0: one per CPU)")

	return cmd
}
