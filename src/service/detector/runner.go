// Package detector applies the rule catalog to source files.
package detector

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/service/rules"
	"legacy-analyzer/src/service/worker"
	"legacy-analyzer/src/util"
)

// Result is the combined output of a detection run
type Result struct {
	Issues   []model.Issue
	Skipped  []model.SkippedFile
	Warnings []model.Warning
	Complete bool // false when the deadline stopped the run early
}

// Runner runs the detector over many files on a bounded worker pool
type Runner struct {
	detector     *Detector
	workers      int
	maxFileBytes int64
}

// NewRunner creates a detector runner
func NewRunner(cfg *config.Config, catalog *rules.Catalog) *Runner {
	util.Debug("Detector runner initialized with %d rules", catalog.Len())
	return &Runner{
		detector:     New(catalog),
		workers:      worker.Limit(cfg.Concurrency.Workers),
		maxFileBytes: cfg.Limits.MaxFileBytes,
	}
}

type fileOutcome struct {
	issues  []model.Issue
	skipped *model.SkippedFile
}

// Run reads every file under root and detects issues. Per-file failures are
// recorded as skipped entries or warnings; results keep the order of files.
func (r *Runner) Run(ctx context.Context, root string, files []model.FileRecord) Result {
	startTime := time.Now()
	util.Info("Starting pattern detection on %d files (workers: %d)", len(files), r.workers)

	outcomes := make([]fileOutcome, len(files))
	errs, complete := worker.Run(ctx, len(files), r.workers, func(_ context.Context, i int) error {
		rec := files[i]
		data, err := util.ReadTextFile(filepath.Join(root, filepath.FromSlash(rec.Path)), r.maxFileBytes)
		if err != nil {
			outcomes[i].skipped = &model.SkippedFile{Path: rec.Path, Stage: model.StageDetect, Reason: skipReason(err)}
			return nil
		}
		outcomes[i].issues = r.detector.Detect(rec, data)
		return nil
	})

	res := Result{Complete: complete, Issues: []model.Issue{}}
	for i, out := range outcomes {
		if err := errs[i]; err != nil {
			if !errors.Is(err, worker.ErrNotStarted) {
				util.Warn("Detection failed for %s: %v", files[i].Path, err)
				res.Warnings = append(res.Warnings, model.Warning{Path: files[i].Path, Stage: model.StageDetect, Message: err.Error()})
			}
			continue
		}
		if out.skipped != nil {
			util.Debug("Skipping %s: %s", out.skipped.Path, out.skipped.Reason)
			res.Skipped = append(res.Skipped, *out.skipped)
			continue
		}
		res.Issues = append(res.Issues, out.issues...)
	}

	if !complete {
		util.Warn("Detection stopped by deadline")
	}
	util.Info("Detection complete: %d issues found (took %v)", len(res.Issues), time.Since(startTime))
	return res
}

func skipReason(err error) string {
	if errors.Is(err, util.ErrFileTooLarge) {
		return err.Error()
	}
	return fmt.Sprintf("unreadable: %v", err)
}
