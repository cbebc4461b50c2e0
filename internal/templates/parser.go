package templates

import (
	"fmt"
	"regexp"
)

// Category is the kind of guidance a template carries.
type Category int

const (
	StyleGuides Category = iota
	BestPractices
)

// Categories lists every category in listing order.
var Categories = []Category{StyleGuides, BestPractices}

// filenamePattern is the template naming convention: {language}_{kind}.md.
// \w is ASCII-only in RE2, so languages are [0-9A-Za-z_]+.
var filenamePattern = regexp.MustCompile(`^(\w+)_(style_guide|best_practices)\.md$`)

// Kind is the token used in filenames ("style_guide", "best_practices").
func (c Category) Kind() string {
	switch c {
	case StyleGuides:
		return "style_guide"
	case BestPractices:
		return "best_practices"
	}
	return ""
}

// Key is the name used for the category in listings ("style_guides",
// "best_practices").
func (c Category) Key() string {
	switch c {
	case StyleGuides:
		return "style_guides"
	case BestPractices:
		return "best_practices"
	}
	return ""
}

func (c Category) String() string {
	if k := c.Key(); k != "" {
		return k
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Title is a human-readable label.
func (c Category) Title() string {
	switch c {
	case StyleGuides:
		return "Style guide"
	case BestPractices:
		return "Best practices"
	}
	return c.String()
}

// ParseCategory accepts either the filename kind or the listing key.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if s == c.Kind() || s == c.Key() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q (want style_guide or best_practices)", s)
}

// Info describes one file that follows the naming convention.
type Info struct {
	Filename string
	Language string
	Category Category
}

// ParseFilename classifies a bare filename. ok is false for anything that does
// not match the convention exactly; that is not an error, the file simply is
// not a template.
func ParseFilename(name string) (Info, bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return Info{}, false
	}

	category := BestPractices
	if m[2] == "style_guide" {
		category = StyleGuides
	}

	return Info{
		Filename: name,
		Language: m[1],
		Category: category,
	}, true
}

// Filename builds the expected filename for a language and category. The
// result is not validated.
func Filename(language string, category Category) string {
	return language + "_" + category.Kind() + ".md"
}
