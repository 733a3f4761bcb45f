package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest file names, checked in this order.
const (
	PackageJSON   = "package.json"
	PyprojectTOML = "pyproject.toml"
)

// manifest is the set of dependency names declared by a project.
type manifest struct {
	Path string
	Deps map[string]bool
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	DependencyGroups map[string][]any `toml:"dependency-groups"`
	Tool             struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// findManifest returns the first manifest present in dir. A manifest that
// exists but fails to parse is still reported as present, with no
// dependencies and the parse error.
func findManifest(dir string) (*manifest, error) {
	for _, name := range []string{PackageJSON, PyprojectTOML} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		m := &manifest{Path: path, Deps: make(map[string]bool)}
		switch name {
		case PackageJSON:
			err = parsePackageJSON(data, m.Deps)
		case PyprojectTOML:
			err = parsePyproject(data, m.Deps)
		}
		if err != nil {
			return m, fmt.Errorf("parsing %s: %w", name, err)
		}
		return m, nil
	}
	return nil, nil
}

func parsePackageJSON(data []byte, deps map[string]bool) error {
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return err
	}
	for name := range pkg.Dependencies {
		deps[name] = true
	}
	for name := range pkg.DevDependencies {
		deps[name] = true
	}
	return nil
}

func parsePyproject(data []byte, deps map[string]bool) error {
	var py pyproject
	if _, err := toml.Decode(string(data), &py); err != nil {
		return err
	}
	for _, req := range py.Project.Dependencies {
		deps[requirementName(req)] = true
	}
	for _, reqs := range py.Project.OptionalDependencies {
		for _, req := range reqs {
			deps[requirementName(req)] = true
		}
	}
	for _, reqs := range py.DependencyGroups {
		for _, req := range reqs {
			// include-group tables are skipped
			if s, ok := req.(string); ok {
				deps[requirementName(s)] = true
			}
		}
	}
	poetry := py.Tool.Poetry
	for name := range poetry.Dependencies {
		deps[strings.ToLower(name)] = true
	}
	for name := range poetry.DevDependencies {
		deps[strings.ToLower(name)] = true
	}
	for _, g := range poetry.Group {
		for name := range g.Dependencies {
			deps[strings.ToLower(name)] = true
		}
	}
	delete(deps, "python")
	delete(deps, "")
	return nil
}

// requirementName extracts the distribution name from a PEP 508 requirement
// such as "fastapi[all]>=0.110; python_version>'3.8'".
func requirementName(req string) string {
	req = strings.TrimSpace(req)
	if i := strings.IndexAny(req, "<>=!~;[ (@"); i >= 0 {
		req = req[:i]
	}
	return strings.ToLower(req)
}
