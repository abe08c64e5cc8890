package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/service/report"
	"legacy-analyzer/src/util"
)

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports generates reports in all configured formats
func (c *ReportController) GenerateReports(analysisReport *model.AnalysisReport) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		output, err := reportGenerator.Generate(analysisReport, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.outputPath(analysisReport.RepoName, format)
		if err := writeFileAtomic(outputPath, []byte(output)); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToString generates a report to a string
func (c *ReportController) GenerateToString(analysisReport *model.AnalysisReport, format string) (string, error) {
	return report.NewGenerator(c.cfg.Output, c.cfg.Agent).Generate(analysisReport, format)
}

func (c *ReportController) outputPath(repoName, format string) string {
	if repoName == "" {
		repoName = "repository"
	}
	return filepath.Join(c.cfg.Output.OutputDir,
		fmt.Sprintf("%s-analysis-report.%s", repoName, report.Extension(format)))
}

// writeFileAtomic writes through a temp file in the target directory so a
// reader never sees a partial report.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
