package cli

import (
	"fmt"

	"guidebook/internal/tui/browser"
	"guidebook/internal/tui/helpers"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func (a *app) newBrowseCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse templates interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			index, cfg, err := a.index(cmd.Context(), false)
			if err != nil {
				return err
			}

			// Dimensions arrive with the first WindowSizeMsg.
			ctx := helpers.NewUIContext(0, 0, cfg, a.log())
			model := browser.New(index, ctx, browser.Options{Raw: raw})

			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browser failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "show markdown source instead of rendering it")
	return cmd
}
