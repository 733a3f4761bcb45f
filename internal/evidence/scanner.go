package evidence

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one scan.
type Report struct {
	Evidence    []Evidence `json:"evidence"`
	HasManifest bool       `json:"hasManifest"`
	Manifest    string     `json:"manifest,omitempty"`
}

// Scanner collects evidence from a project directory.
type Scanner struct {
	logger *zap.Logger
}

// NewScanner returns a Scanner. A nil logger is replaced with a no-op one.
func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{logger: logger}
}

// Scan inspects dir. It never fails: unreadable paths simply produce less
// evidence. The three sub-scans run concurrently, each into its own slice,
// and are concatenated in a fixed order once all have finished.
func (s *Scanner) Scan(ctx context.Context, dir string) Report {
	var (
		deps, configs, folders []Evidence
		m                      *manifest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		m, err = findManifest(dir)
		if err != nil {
			s.logger.Debug("manifest unreadable", zap.String("path", m.Path), zap.Error(err))
		}
		deps = scanDependencies(gctx, m)
		return nil
	})
	g.Go(func() error {
		configs = scanMarkers(gctx, dir, configFileRules, CategoryConfigFile, false)
		return nil
	})
	g.Go(func() error {
		folders = scanMarkers(gctx, dir, folderRules, CategoryFolderStructure, true)
		return nil
	})
	_ = g.Wait() // sub-scans do not fail

	r := Report{
		Evidence: make([]Evidence, 0, len(deps)+len(configs)+len(folders)),
	}
	r.Evidence = append(r.Evidence, deps...)
	r.Evidence = append(r.Evidence, configs...)
	r.Evidence = append(r.Evidence, folders...)
	if m != nil {
		r.HasManifest = true
		r.Manifest = filepath.Base(m.Path)
	}

	s.logger.Debug("scan complete",
		zap.String("dir", dir),
		zap.Int("dependency", len(deps)),
		zap.Int("config-file", len(configs)),
		zap.Int("folder-structure", len(folders)),
		zap.Bool("manifest", r.HasManifest),
	)
	return r
}

func scanDependencies(ctx context.Context, m *manifest) []Evidence {
	if m == nil || len(m.Deps) == 0 {
		return nil
	}
	source := filepath.Base(m.Path)
	var out []Evidence
	for _, rule := range dependencyRules {
		if ctx.Err() != nil {
			break
		}
		if !m.Deps[rule.Name] || anyPresent(m.Deps, rule.Unless) {
			continue
		}
		out = append(out, New(rule.Name+" ("+source+")", CategoryDependency, rule.Implies))
	}
	return out
}

func scanMarkers(ctx context.Context, dir string, rules []markerRule, cat Category, wantDir bool) []Evidence {
	var out []Evidence
	for _, rule := range rules {
		if ctx.Err() != nil {
			break
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rule.Path)))
		if err != nil || info.IsDir() != wantDir {
			continue
		}
		source := rule.Path
		if wantDir {
			source += "/"
		}
		out = append(out, New(source, cat, rule.Implies))
	}
	return out
}

func anyPresent(deps map[string]bool, names []string) bool {
	for _, n := range names {
		if deps[n] {
			return true
		}
	}
	return false
}
