// Package scanner walks a source tree once and classifies every regular file.
package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"legacy-analyzer/src/config"
	"legacy-analyzer/src/model"
	"legacy-analyzer/src/util"
)

var (
	// ErrRootNotFound is returned when the root path does not exist.
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootNotDirectory is returned when the root path is not a directory.
	ErrRootNotDirectory = errors.New("root path is not a directory")
	// ErrRootUnreadable is returned when the root directory cannot be listed.
	ErrRootUnreadable = errors.New("root directory is not readable")
)

// skipDirs are pruned wherever they appear in the tree
var skipDirs = []string{
	".git", ".svn", ".hg",
	"node_modules", "__pycache__", ".pytest_cache",
	"venv", "env", ".venv", ".env",
	"dist", "build", ".next", ".nuxt",
	"coverage", ".coverage", "htmlcov",
	".idea", ".vscode", ".vs",
	"target", "bin", "obj",
}

const defaultSniffBytes = 8000

// Scanner walks a tree and produces FileRecords
type Scanner struct {
	cfg        config.ScannerConfig
	exclusions *util.ExclusionMatcher
	ignoreDirs map[string]struct{}
}

// New creates a scanner. exclusions may be nil.
func New(cfg config.ScannerConfig, exclusions *util.ExclusionMatcher) *Scanner {
	dirs := make(map[string]struct{}, len(skipDirs)+len(cfg.IgnoreDirs))
	for _, d := range skipDirs {
		dirs[d] = struct{}{}
	}
	for _, d := range cfg.IgnoreDirs {
		dirs[d] = struct{}{}
	}
	if cfg.BinarySniffBytes <= 0 {
		cfg.BinarySniffBytes = defaultSniffBytes
	}

	return &Scanner{
		cfg:        cfg,
		exclusions: exclusions,
		ignoreDirs: dirs,
	}
}

// Scan walks root depth-first in lexical order. Only problems with the root
// itself are returned as errors; per-file problems become skipped entries.
// Reaching the file cap or the context deadline stops the walk and marks
// the result truncated.
func (s *Scanner) Scan(ctx context.Context, root string) (*model.ScanResult, error) {
	startTime := time.Now()

	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var gi *ignore.GitIgnore
	if s.cfg.RespectGitignore {
		gi = loadGitignore(absRoot)
	}

	result := &model.ScanResult{Root: absRoot}
	visited := 0

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if path == absRoot {
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
			}
			return nil
		}

		if ctx.Err() != nil {
			util.Warn("Scan deadline reached after %d files, stopping scan", visited)
			result.Truncated = true
			return filepath.SkipAll
		}

		rel := relativePath(absRoot, path)

		if err != nil {
			result.Skipped = append(result.Skipped, model.SkippedFile{Path: rel, Stage: model.StageScan, Reason: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if s.skipDir(d.Name(), rel, gi) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			result.Skipped = append(result.Skipped, model.SkippedFile{Path: rel, Stage: model.StageScan, Reason: "symbolic link not followed"})
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if s.exclusions.Matches(rel) || (gi != nil && gi.MatchesPath(rel)) {
			return nil
		}

		if s.cfg.MaxFiles > 0 && visited >= s.cfg.MaxFiles {
			util.Warn("Reached max file limit (%d), stopping scan", s.cfg.MaxFiles)
			result.Truncated = true
			return filepath.SkipAll
		}
		visited++

		rec, err := inspect(path, rel, s.cfg.BinarySniffBytes)
		if err != nil {
			util.Debug("Skipping unreadable file %s: %v", rel, err)
			result.Skipped = append(result.Skipped, model.SkippedFile{Path: rel, Stage: model.StageScan, Reason: err.Error()})
			return nil
		}
		result.Files = append(result.Files, rec)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	util.Info("Scanned %d files (%d recorded, %d skipped, truncated: %v) in %v",
		visited, len(result.Files), len(result.Skipped), result.Truncated, time.Since(startTime))
	return result, nil
}

func (s *Scanner) skipDir(name, rel string, gi *ignore.GitIgnore) bool {
	if _, skip := s.ignoreDirs[name]; skip {
		return true
	}
	return gi != nil && gi.MatchesPath(rel+"/")
}

func resolveRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDirectory, root)
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// inspect stats, sniffs and line-counts one regular file.
func inspect(absPath, rel string, sniffBytes int) (model.FileRecord, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return model.FileRecord{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return model.FileRecord{}, err
	}

	lang, dialect := Classify(rel)
	rec := model.FileRecord{
		Path:      rel,
		Language:  lang,
		SizeBytes: info.Size(),
		Dialect:   dialect,
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return model.FileRecord{}, err
	}
	head = head[:n]

	if hasUTF16BOM(head) {
		rest, err := io.ReadAll(f)
		if err != nil {
			return model.FileRecord{}, err
		}
		decoded, err := util.DecodeText(append(head, rest...))
		if err != nil {
			return model.FileRecord{}, err
		}
		rec.LineCount, _ = countLines(bytes.NewReader(decoded))
		return rec, nil
	}

	if bytes.IndexByte(head, 0) >= 0 {
		rec.Binary = true
		return rec, nil
	}

	rec.LineCount, err = countLines(io.MultiReader(bytes.NewReader(head), f))
	if err != nil {
		return model.FileRecord{}, err
	}
	return rec, nil
}

func hasUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF))
}

// countLines counts newline-terminated lines plus a final unterminated one.
func countLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	count := 0
	var last byte
	seen := false

	for {
		n, err := r.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			last = buf[n-1]
			seen = true
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	if seen && last != '\n' {
		count++
	}
	return count, nil
}
