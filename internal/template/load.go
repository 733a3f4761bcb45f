package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Extensions recognised as definition files.
var Extensions = []string{".yaml", ".yml", ".toml", ".md"}

// IsDefinitionFile reports whether path has a recognised extension.
func IsDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IDFromPath derives a template id: the file name without its extension.
func IDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadReport describes the outcome of loading one definition file.
type LoadReport struct {
	Path   string           `json:"path"`
	ID     string           `json:"id"`
	Scope  Scope            `json:"scope"`
	Result ValidationResult `json:"result"`
	Err    error            `json:"-"`
}

// Loaded reports whether the file produced a usable definition.
func (r LoadReport) Loaded() bool {
	return r.Err == nil && r.Result.Valid
}

// Decode parses definition bytes into the raw map the validator checks.
// The format is chosen by ext.
func Decode(data []byte, ext string) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
	case ".md":
		return decodeMarkdown(data)
	default:
		return nil, fmt.Errorf("unsupported template format %q", ext)
	}
	return raw, nil
}

// Build validates raw and, when valid, converts it into a Definition.
// The definition is nil whenever the result is invalid.
func Build(raw any, id string) (*Definition, ValidationResult, error) {
	result := Validate(raw, id)
	if !result.Valid {
		return nil, result, nil
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  &def,
	})
	if err != nil {
		return nil, result, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, result, fmt.Errorf("decoding template %s: %w", id, err)
	}
	def.ID = id
	return &def, result, nil
}

// LoadFile reads, validates and builds one definition file. Resolvers
// registered for the derived id are attached when reg is non-nil.
func LoadFile(path string, reg *ResolverRegistry) (*Definition, LoadReport) {
	report := LoadReport{Path: path, ID: IDFromPath(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Err = fmt.Errorf("reading template: %w", err)
		return nil, report
	}
	raw, err := Decode(data, filepath.Ext(path))
	if err != nil {
		report.Err = err
		return nil, report
	}

	def, result, err := Build(raw, report.ID)
	report.Result = result
	if err != nil {
		report.Err = err
		return nil, report
	}
	if def == nil {
		return nil, report
	}

	def.Source = path
	if reg != nil {
		def.Resolvers = reg.Resolvers(def.ID)
	}
	return def, report
}

// LoadDir loads every definition file directly inside dir. A missing
// directory yields no definitions and no error. When two files share an id
// the later one in name order wins.
func LoadDir(dir string, reg *ResolverRegistry) ([]*Definition, []LoadReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading template directory: %w", err)
	}

	byID := make(map[string]int)
	var (
		defs    []*Definition
		reports []LoadReport
	)
	for _, e := range entries {
		if e.IsDir() || !IsDefinitionFile(e.Name()) {
			continue
		}
		def, report := LoadFile(filepath.Join(dir, e.Name()), reg)
		reports = append(reports, report)
		if def == nil {
			continue
		}
		if i, ok := byID[def.ID]; ok {
			defs[i] = def
			continue
		}
		byID[def.ID] = len(defs)
		defs = append(defs, def)
	}
	return defs, reports, nil
}
