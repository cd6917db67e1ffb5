package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the optional metadata block at the top of a lesson file.
type FrontMatter struct {
	Title   string         `yaml:"title"`
	Summary string         `yaml:"summary"`
	Order   int            `yaml:"order"`
	Custom  map[string]any `yaml:",inline"`
}

// ParseFrontMatter splits source into metadata and Markdown body. Sources
// without a frontmatter block come back unchanged with empty metadata.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Custom == nil {
		meta.Custom = map[string]any{}
	}
	return meta, body, nil
}
