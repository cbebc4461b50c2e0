package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"guidebook/internal/templates"
	"guidebook/internal/tui/styles"

	"github.com/spf13/cobra"
)

func (a *app) newListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available templates",
		Long: `List the templates in the templates directory, grouped by category.

Examples:
  guidebook list          # Grouped, human readable
  guidebook list --json   # Same shape as the list_templates tool`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, _, err := a.index(cmd.Context(), false)
			if err != nil {
				return err
			}

			listing, err := index.List()
			if err != nil {
				return fmt.Errorf("%s", templates.Sentinel(err))
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			writeListing(cmd.OutOrStdout(), index.Dir(), listing)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeListing(w io.Writer, dir string, listing templates.Listing) {
	if listing.Len() == 0 {
		fmt.Fprintln(w, styles.WarningStyle.Render("No templates found in "+dir))
		return
	}

	var b strings.Builder
	for i, c := range templates.Categories {
		g := listing.Group(c)
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d)\n", styles.SectionStyle.Render(c.Title()), len(g.Files))
		if len(g.Files) == 0 {
			b.WriteString("  none\n")
			continue
		}
		for j, file := range g.Files {
			fmt.Fprintf(&b, "  %s  %s\n",
				styles.LanguageStyle.Render(g.Languages[j]),
				styles.FileStyle.Render(file))
		}
	}
	fmt.Fprint(w, b.String())
}
