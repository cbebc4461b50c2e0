package cli

import (
	"errors"
	"fmt"
	"time"

	"guidebook/internal/templates"
	"guidebook/internal/tui/helpers"

	"github.com/spf13/cobra"
)

func (a *app) newShowCmd() *cobra.Command {
	var (
		raw   bool
		style string
		width int
	)

	cmd := &cobra.Command{
		Use:   "show <language> <style_guide|best_practices>",
		Short: "Print a style guide or best-practices document",
		Long: `Print one template, rendered for the terminal.

Examples:
  guidebook show python style_guide
  guidebook show react best_practices --raw`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{"style_guide", "best_practices"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := templates.ParseCategory(args[1])
			if err != nil {
				return err
			}

			index, _, err := a.index(cmd.Context(), false)
			if err != nil {
				return err
			}

			doc, err := index.Get(args[0], category)
			if err != nil {
				return errors.New(templates.Sentinel(err))
			}

			out := doc.Content
			if !raw {
				if style == "" {
					style = helpers.DetectGlamourStyle(50 * time.Millisecond)
				}
				rendered, err := helpers.RenderMarkdown(doc.Content, style, width)
				if err != nil {
					a.log().Warn("Markdown rendering failed, printing raw content", "file", doc.Filename, "error", err)
				} else {
					out = rendered
				}
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source")
	cmd.Flags().StringVar(&style, "style", "", "glamour style (dark, light, notty, ...); detected when empty")
	cmd.Flags().IntVar(&width, "width", 80, "wrap rendered output at this width")
	return cmd
}
