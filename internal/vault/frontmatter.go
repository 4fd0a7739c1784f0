package vault

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// frontmatter holds the parsed YAML frontmatter fields the scanner cares
// about. A note can opt out of syncing with "llm_sync: false".
type frontmatter struct {
	LLMSync *bool `yaml:"llm_sync"`
}

// syncEnabled reports whether the note's frontmatter allows syncing.
// Notes without frontmatter, with malformed frontmatter, or without the
// llm_sync key are synced.
func syncEnabled(content []byte) bool {
	fm := parseFrontmatter(content)
	if fm == nil || fm.LLMSync == nil {
		return true
	}

	return *fm.LLMSync
}

// parseFrontmatter extracts YAML frontmatter from markdown content.
// Returns nil if no frontmatter is found.
func parseFrontmatter(content []byte) *frontmatter {
	if !bytes.HasPrefix(content, []byte("---")) {
		return nil
	}

	// Find the closing delimiter. It must be on its own line.
	rest := content[3:]
	// Skip the rest of the opening line (could be "---\n" or "---\r\n").
	idx := bytes.IndexByte(rest, '\n')
	if idx < 0 {
		return nil
	}
	rest = rest[idx+1:]

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return nil
	}

	block := rest[:end]

	var fm frontmatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return nil
	}

	return &fm
}
