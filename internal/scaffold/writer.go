package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"go.uber.org/zap"

	"github.com/skill-compiler/skillgen/internal/cache"
	"github.com/skill-compiler/skillgen/internal/template"
)

// Writer puts rendered skills on disk.
type Writer struct {
	// Force overwrites files that were edited by hand or not generated by
	// skillgen, and rewrites files whose inputs did not change.
	Force bool
	// DryRun reports what would be written without touching the disk.
	DryRun bool

	logger *zap.Logger
}

// NewWriter returns a Writer. A nil logger discards log output.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// Result lists what happened to each file, by path relative to the skill
// directory.
type Result struct {
	Dir       string
	Written   []string
	Unchanged []string
	// Conflicts were left alone because the file on disk differs from what
	// skillgen last wrote. The new render is saved under the pending
	// directory.
	Conflicts []string
}

// Write renders out into outDir/skillName.
func (w *Writer) Write(outDir, skillName string, out *Output) (*Result, error) {
	if err := ValidateSkillName(skillName); err != nil {
		return nil, err
	}
	skillDir, err := securejoin.SecureJoin(outDir, skillName)
	if err != nil {
		return nil, fmt.Errorf("resolving skill directory: %w", err)
	}

	lf, err := cache.LoadLockFile(skillDir)
	if err != nil {
		return nil, err
	}

	logger := w.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{Dir: skillDir}
	ctxJSON := out.contextJSON()
	for _, path := range out.Files.Paths() {
		content := out.Files[path]
		inHash := cache.HashInput(out.TemplateID, ctxJSON, out.Sources[path])

		target, err := securejoin.SecureJoin(skillDir, filepath.FromSlash(path))
		if err != nil {
			return res, fmt.Errorf("resolving %s: %w", path, err)
		}

		existing, readErr := os.ReadFile(target)
		if readErr == nil && !w.Force {
			onDisk := string(existing)
			_, tracked := lf.Files[path]
			switch {
			case onDisk == content && lf.IsUpToDate(path, inHash):
				logger.Debug("unchanged", zap.String("path", path))
				res.Unchanged = append(res.Unchanged, path)
				continue
			case lf.IsModified(path, onDisk) || (!tracked && onDisk != content):
				logger.Debug("conflict", zap.String("path", path))
				res.Conflicts = append(res.Conflicts, path)
				if !w.DryRun {
					if err := cache.WritePending(skillDir, path, content); err != nil {
						return res, fmt.Errorf("saving pending render of %s: %w", path, err)
					}
				}
				continue
			}
		}

		res.Written = append(res.Written, path)
		if w.DryRun {
			continue
		}
		if err := writeFile(target, content, fileMode(path)); err != nil {
			return res, fmt.Errorf("writing %s: %w", path, err)
		}
		lf.UpdateEntry(path, inHash, cache.HashOutput(content), out.TemplateID)
		logger.Debug("wrote", zap.String("path", target))
	}

	if w.DryRun {
		return res, nil
	}
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return res, fmt.Errorf("creating skill directory: %w", err)
	}
	if err := cache.SaveLockFile(skillDir, lf); err != nil {
		return res, err
	}
	return res, nil
}

func fileMode(path string) os.FileMode {
	if strings.HasPrefix(path, template.KeyScripts) {
		return 0o755
	}
	return 0o644
}

func writeFile(path, content string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, mode)
}
