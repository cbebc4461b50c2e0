package templates

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"guidebook/internal/logging"
	"guidebook/pkg/fileops"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions caps the "did you mean" list on a missing template.
const maxSuggestions = 3

// Group holds the templates of one category. Languages[i] is the language
// encoded in Files[i].
type Group struct {
	Languages []string `json:"languages"`
	Files     []string `json:"files"`
}

// Listing is the result of one directory pass. Both categories are always
// present, with empty (non-nil) slices when nothing matched.
type Listing struct {
	StyleGuides   Group `json:"style_guides"`
	BestPractices Group `json:"best_practices"`
}

func newListing() Listing {
	return Listing{
		StyleGuides:   Group{Languages: []string{}, Files: []string{}},
		BestPractices: Group{Languages: []string{}, Files: []string{}},
	}
}

// Group returns the group for c.
func (l *Listing) Group(c Category) *Group {
	if c == StyleGuides {
		return &l.StyleGuides
	}
	return &l.BestPractices
}

// Len is the number of templates across both categories.
func (l Listing) Len() int {
	return len(l.StyleGuides.Files) + len(l.BestPractices.Files)
}

// Entries flattens the listing, style guides first, each in filename order.
func (l Listing) Entries() []Info {
	entries := make([]Info, 0, l.Len())
	for _, c := range Categories {
		g := l.Group(c)
		for i, file := range g.Files {
			entries = append(entries, Info{Filename: file, Language: g.Languages[i], Category: c})
		}
	}
	return entries
}

// Document is a successfully read template.
type Document struct {
	Filename string
	Language string
	Category Category
	Content  string
}

// Index answers queries against a templates directory. It keeps no state
// besides the directory path: every call re-reads the filesystem, so it is
// safe for concurrent use.
type Index struct {
	dir    string
	logger *logging.AppLogger
}

// NewIndex creates an index over dir. A nil logger uses the default logger.
func NewIndex(dir string, logger *logging.AppLogger) *Index {
	if logger == nil {
		logger = logging.GetDefault()
	}
	return &Index{dir: dir, logger: logger}
}

// Dir returns the templates directory.
func (ix *Index) Dir() string {
	return ix.dir
}

// List enumerates the directory and groups every conventional template by
// category. Names are visited in byte order; files without the ".md" suffix
// and directories are skipped before parsing.
func (ix *Index) List() (Listing, error) {
	start := time.Now()
	defer ix.logger.LogPerformance("list_templates", start)

	listing := newListing()

	entries, err := os.ReadDir(ix.dir)
	if err != nil {
		ix.logger.Error("Failed to read templates directory", "dir", ix.dir, "error", err)
		return listing, &DirectoryError{Dir: ix.dir, Err: err}
	}

	var skipped int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".md") || entry.IsDir() {
			skipped++
			continue
		}

		info, ok := ParseFilename(name)
		if !ok {
			ix.logger.Debug("Skipping non-template file", "name", name)
			skipped++
			continue
		}

		g := listing.Group(info.Category)
		g.Languages = append(g.Languages, info.Language)
		g.Files = append(g.Files, info.Filename)
	}

	ix.logger.Debug("Listed templates",
		"dir", ix.dir,
		"style_guides", len(listing.StyleGuides.Files),
		"best_practices", len(listing.BestPractices.Files),
		"skipped", skipped,
	)

	return listing, nil
}

// Get reads the template for language and category. The filename is built as
// {language}_{kind}.md and must resolve inside the templates directory.
//
// Errors are *InvalidNameError, *NotFoundError or *ReadError.
func (ix *Index) Get(language string, category Category) (Document, error) {
	filename := Filename(language, category)

	if err := fileops.ValidateFilename(filename); err != nil || language == "" {
		reason := "language cannot be empty"
		if err != nil {
			reason = err.Error()
		}
		ix.logger.Warn("Rejected template lookup", "filename", filename, "reason", reason)
		return Document{}, &InvalidNameError{Filename: filename, Reason: reason}
	}

	content, err := ix.read(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ix.logger.Debug("Template not found", "filename", filename)
			return Document{}, &NotFoundError{
				Filename:    filename,
				Suggestions: ix.suggest(language, category),
			}
		}
		ix.logger.Error("Failed to read template", "filename", filename, "error", err)
		return Document{}, &ReadError{Filename: filename, Err: err}
	}

	return Document{
		Filename: filename,
		Language: language,
		Category: category,
		Content:  content,
	}, nil
}

// GetStyleGuide is Get pinned to StyleGuides.
func (ix *Index) GetStyleGuide(language string) (Document, error) {
	return ix.Get(language, StyleGuides)
}

// GetBestPractices is Get pinned to BestPractices.
func (ix *Index) GetBestPractices(language string) (Document, error) {
	return ix.Get(language, BestPractices)
}

// read opens filename through an os.Root so symlinks cannot escape the
// templates directory either.
func (ix *Index) read(filename string) (string, error) {
	root, err := os.OpenRoot(ix.dir)
	if err != nil {
		return "", err
	}
	defer root.Close()

	f, err := root.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// suggest returns up to maxSuggestions languages in category that fuzzily
// match language. Listing failures yield no suggestions.
func (ix *Index) suggest(language string, category Category) []string {
	listing, err := ix.List()
	if err != nil {
		return nil
	}

	languages := listing.Group(category).Languages
	matches := fuzzy.Find(language, languages)

	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, languages[m.Index])
	}
	return out
}
