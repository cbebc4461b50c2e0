package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"guidebook/internal/logging"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func isWordChar(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func genLanguage() gopter.Gen {
	return gen.RegexMatch(`^[A-Za-z0-9_]{1,12}$`)
}

func genCategory() gopter.Gen {
	return gen.IntRange(0, len(Categories)-1).Map(func(i int) Category {
		return Categories[i]
	})
}

// TestParseFilenameProperties checks the parser against the naming convention.
func TestParseFilenameProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("conventional names round-trip", prop.ForAll(
		func(language string, category Category) bool {
			info, ok := ParseFilename(Filename(language, category))
			if !ok {
				return false
			}
			// A language ending in a kind token can be split differently, but
			// the category always comes from the final token.
			return info.Category == category && strings.HasPrefix(info.Filename, info.Language+"_")
		},
		genLanguage(),
		genCategory(),
	))

	properties.Property("parsed language is exactly the captured group", prop.ForAll(
		func(language string, category Category) bool {
			if strings.HasSuffix(language, "_style_guide") || strings.HasSuffix(language, "_best_practices") {
				return true
			}
			info, ok := ParseFilename(Filename(language, category))
			return ok && info.Language == language
		},
		genLanguage(),
		genCategory(),
	))

	properties.Property("names without the .md suffix never parse", prop.ForAll(
		func(name string) bool {
			if strings.HasSuffix(name, ".md") {
				return true
			}
			_, ok := ParseFilename(name)
			return !ok
		},
		gen.AnyString(),
	))

	properties.Property("names with a non-word language never parse", prop.ForAll(
		func(language string, category Category) bool {
			hasNonWord := false
			for _, r := range language {
				if !isWordChar(r) {
					hasNonWord = true
					break
				}
			}
			if !hasNonWord {
				return true
			}
			_, ok := ParseFilename(Filename(language, category))
			return !ok
		},
		gen.AnyString(),
		genCategory(),
	))

	properties.TestingRun(t)
}

// TestListingProperties checks listing invariants over generated directories.
func TestListingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(97531)
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)
	logger, _ := logging.NewTestLogger()

	properties.Property("files count equals conventional names and lists stay aligned", prop.ForAll(
		func(names []string) bool {
			dir, err := os.MkdirTemp("", "guidebook-prop-*")
			if err != nil {
				return false
			}
			defer os.RemoveAll(dir)

			want := map[string]bool{}
			for _, name := range names {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
					return false
				}
				if _, ok := ParseFilename(name); ok {
					want[name] = true
				}
			}

			listing, err := NewIndex(dir, logger).List()
			if err != nil || listing.Len() != len(want) {
				return false
			}

			for _, c := range Categories {
				g := listing.Group(c)
				if len(g.Languages) != len(g.Files) {
					return false
				}
				for i, file := range g.Files {
					info, ok := ParseFilename(file)
					if !ok || !want[file] || info.Category != c || info.Language != g.Languages[i] {
						return false
					}
					if i > 0 && g.Files[i-1] >= file {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(genDirEntryName()),
	))

	properties.TestingRun(t)
}

// genDirEntryName produces a mix of conventional and unrelated file names.
func genDirEntryName() gopter.Gen {
	return gen.OneGenOf(
		gen.RegexMatch(`^[a-z0-9_]{1,8}_(style_guide|best_practices)\.md$`),
		gen.RegexMatch(`^[a-z]{1,8}\.(md|txt|markdown)$`),
		gen.RegexMatch(`^[a-z]{1,8}_(style_guide|best_practices)\.(txt|MD)$`),
	)
}
