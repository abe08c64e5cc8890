package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/service/worker"
	"legacy-analyzer/src/util"
)

// Result is the combined output of an extraction run
type Result struct {
	Dependencies []model.DependencyRecord
	Skipped      []model.SkippedFile
	Warnings     []model.Warning
	Complete     bool
}

// Runner extracts dependencies from many manifests on a bounded worker pool
type Runner struct {
	workers      int
	maxFileBytes int64
}

// NewRunner creates an extraction runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		workers:      worker.Limit(cfg.Concurrency.Workers),
		maxFileBytes: cfg.Limits.MaxFileBytes,
	}
}

type manifestOutcome struct {
	deps    []model.DependencyRecord
	warning error
	skipped string
}

// Run parses every manifest under root. Results keep the order of files.
func (r *Runner) Run(ctx context.Context, root string, files []model.FileRecord) Result {
	startTime := time.Now()
	util.Info("Extracting dependencies from %d manifests", len(files))

	outcomes := make([]manifestOutcome, len(files))
	errs, complete := worker.Run(ctx, len(files), r.workers, func(_ context.Context, i int) error {
		rec := files[i]
		data, err := util.ReadTextFile(filepath.Join(root, filepath.FromSlash(rec.Path)), r.maxFileBytes)
		if err != nil {
			outcomes[i].skipped = readFailure(err)
			return nil
		}
		outcomes[i].deps, outcomes[i].warning = Extract(rec, data)
		return nil
	})

	res := Result{Complete: complete, Dependencies: []model.DependencyRecord{}}
	for i, out := range outcomes {
		path := files[i].Path
		if err := errs[i]; err != nil {
			if !errors.Is(err, worker.ErrNotStarted) {
				res.Warnings = append(res.Warnings, model.Warning{Path: path, Stage: model.StageExtract, Message: err.Error()})
			}
			continue
		}
		if out.skipped != "" {
			res.Skipped = append(res.Skipped, model.SkippedFile{Path: path, Stage: model.StageExtract, Reason: out.skipped})
			continue
		}
		if out.warning != nil {
			util.WithFields(map[string]any{"file": path, "dialect": files[i].Dialect}).Warnf("Manifest partly or wholly unreadable: %v", out.warning)
			res.Warnings = append(res.Warnings, model.Warning{Path: path, Stage: model.StageExtract, Message: out.warning.Error()})
		}
		res.Dependencies = append(res.Dependencies, out.deps...)
	}

	util.Info("Extracted %d dependencies (took %v)", len(res.Dependencies), time.Since(startTime))
	return res
}

func readFailure(err error) string {
	if errors.Is(err, util.ErrFileTooLarge) {
		return err.Error()
	}
	return fmt.Sprintf("unreadable: %v", err)
}
