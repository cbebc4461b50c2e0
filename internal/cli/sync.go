package cli

import (
	"fmt"

	"guidebook/internal/tui/styles"

	"github.com/spf13/cobra"
)

func (a *app) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Clone or update the configured template source",
		Long: `Prepare the configured template source. With a remote configured the
repository is cloned on first use and fast-forwarded afterwards; local
changes in the clone are never overwritten. A local directory is only
validated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dir, info, err := a.resolve(cmd.Context(), true)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			msgStyle := styles.SuccessStyle
			if info.Dirty {
				msgStyle = styles.WarningStyle
			}
			fmt.Fprintln(w, msgStyle.Render(info.Message))
			fmt.Fprintf(w, "Templates directory: %s\n", dir)
			return nil
		},
	}
}
