package cli

import (
	"bufio"
	"fmt"
	"strings"

	"guidebook/internal/source"
	"guidebook/internal/tui/styles"

	"github.com/spf13/cobra"
)

func (a *app) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the GitHub token used for private template repositories",
		Long: `Manage the GitHub personal access token used when a template repository
refuses anonymous access. The token is kept in the OS keyring.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [token]",
			Short: "Store a GitHub token (read from stdin when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var token string
				if len(args) == 1 {
					token = args[0]
				} else {
					line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if err != nil && line == "" {
						return fmt.Errorf("reading token from stdin: %w", err)
					}
					token = line
				}

				cm := source.NewCredentialManager()
				if err := cm.StoreGitHubToken(strings.TrimSpace(token)); err != nil {
					return err
				}
				masked, _ := cm.MaskedToken()
				fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("Token stored: "+masked))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored GitHub token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := source.NewCredentialManager().DeleteGitHubToken(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("Token removed"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether a GitHub token is stored",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				masked, err := source.NewCredentialManager().MaskedToken()
				if err != nil {
					a.log().Debug("No usable token", "error", err)
					fmt.Fprintln(cmd.OutOrStdout(), styles.WarningStyle.Render("No GitHub token stored"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "GitHub token: "+masked)
				return nil
			},
		},
	)

	return cmd
}
