package template

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeMarkdown reads a definition written as a Markdown file: the YAML
// frontmatter holds the definition and the body becomes content["SKILL.md"]
// unless the frontmatter already sets it.
func decodeMarkdown(data []byte) (map[string]any, error) {
	fm, body, err := extractFrontmatter(string(data))
	if err != nil {
		return nil, err
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(fm), &raw); err != nil {
		return nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	content, ok := asMap(raw["content"])
	if !ok {
		if _, present := raw["content"]; present {
			// leave the malformed value for the validator to report
			return raw, nil
		}
		content = map[string]any{}
	}
	if _, set := content[KeySkill]; !set {
		content[KeySkill] = body
	}
	raw["content"] = content
	return raw, nil
}

// extractFrontmatter splits on --- delimiters and returns frontmatter YAML and body.
func extractFrontmatter(content string) (string, string, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "---") {
		return "", "", fmt.Errorf("template file must start with YAML frontmatter (---)")
	}

	rest := trimmed[3:]
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", fmt.Errorf("template file missing closing frontmatter delimiter (---)")
	}

	fm := strings.TrimSpace(rest[:idx])
	body := strings.TrimSpace(rest[idx+4:])
	return fm, body + "\n", nil
}
