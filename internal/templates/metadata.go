package templates

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// Metadata is the optional YAML frontmatter a template may start with. It is
// only used for descriptions; fetched content is always returned verbatim.
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ParseMetadata extracts frontmatter from content. Templates without
// frontmatter, or with frontmatter that does not parse, yield zero Metadata.
func ParseMetadata(content string) Metadata {
	var m Metadata
	if _, err := frontmatter.Parse(strings.NewReader(content), &m); err != nil {
		return Metadata{}
	}
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)
	return m
}

// Summary is a one-line description for doc: the frontmatter description if
// present, then its title, then the first markdown heading, then a generic
// label.
func (d Document) Summary() string {
	m := ParseMetadata(d.Content)
	if m.Description != "" {
		return m.Description
	}
	if m.Title != "" {
		return m.Title
	}

	for _, line := range strings.Split(d.Content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if heading := strings.TrimSpace(strings.TrimLeft(line, "#")); heading != "" {
				return heading
			}
		}
	}

	return d.Category.Title() + " for " + d.Language
}
