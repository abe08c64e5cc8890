package controller

import (
	"context"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/service/aggregator"
	"legacy-analyzer/src/service/detector"
	"legacy-analyzer/src/service/extractor"
	"legacy-analyzer/src/service/rules"
	"legacy-analyzer/src/service/scanner"
	"legacy-analyzer/src/util"
)

// AnalysisController orchestrates the analysis pipeline
type AnalysisController struct {
	cfg     *config.Config
	catalog *rules.Catalog
}

// NewAnalysisController creates a new analysis controller. The catalog is
// shared read-only by every analysis the controller runs.
func NewAnalysisController(cfg *config.Config, catalog *rules.Catalog) *AnalysisController {
	return &AnalysisController{cfg: cfg, catalog: catalog}
}

// AnalyzeRequest represents a request to analyze a source tree
type AnalyzeRequest struct {
	Root     string
	RepoName string // defaults to the base name of Root
}

// Analyze runs scan, then extraction and detection side by side, then
// aggregation. Only root problems are returned as errors; hitting the file
// cap or the deadline yields a truncated report.
func (c *AnalysisController) Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisReport, error) {
	startTime := time.Now()

	repoName := req.RepoName
	if repoName == "" {
		if abs, err := filepath.Abs(req.Root); err == nil {
			repoName = filepath.Base(abs)
		}
	}
	log := util.WithFields(map[string]any{"repo": repoName})
	log.Infof("Starting analysis of %s", req.Root)

	if c.cfg.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Limits.Timeout)
		defer cancel()
	}

	fileScanner := scanner.New(c.cfg.Scanner, util.NewExclusionMatcher(c.cfg.Exclusions))
	scan, err := fileScanner.Scan(ctx, req.Root)
	if err != nil {
		log.Errorf("Scan failed: %v", err)
		return nil, err
	}

	var (
		extracted extractor.Result
		detected  detector.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		extracted = extractor.NewRunner(c.cfg).Run(gctx, scan.Root, scan.Manifests())
		return nil
	})
	g.Go(func() error {
		detected = detector.NewRunner(c.cfg, c.catalog).Run(gctx, scan.Root, scan.Sources())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := aggregator.Aggregate(aggregator.Input{
		RepoName:     repoName,
		Scan:         scan,
		Dependencies: extracted.Dependencies,
		Issues:       detected.Issues,
		Skipped:      append(extracted.Skipped, detected.Skipped...),
		Warnings:     append(extracted.Warnings, detected.Warnings...),
		Truncated:    !extracted.Complete || !detected.Complete,
	})

	log.Infof("Analysis complete: %d files, %d dependencies, %d issues, score %d (%s), truncated: %v (took %v)",
		report.TotalFiles, len(report.Dependencies), len(report.Issues),
		report.MaintainabilityScore, report.Grade, report.Truncated, time.Since(startTime))

	return report, nil
}
