package cli

import (
	"fmt"

	"guidebook/internal/config"
	"guidebook/internal/tui/styles"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and update the config file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the config file and the effective templates directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}

				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "# %s\n%s", config.ConfigPath(), data)
				fmt.Fprintf(w, "# effective templates directory: %s\n", cfg.ResolveTemplatesDir(a.dir))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-dir <directory>",
			Short: "Set the templates directory",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := cfg.SetTemplatesDir(args[0]); err != nil {
					return err
				}
				if err := cfg.Save(); err != nil {
					return err
				}

				a.log().Info("Templates directory updated", "dir", cfg.TemplatesDir)
				fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render("Templates directory set to "+cfg.TemplatesDir))
				return nil
			},
		},
		a.newSetRemoteCmd(),
	)

	return cmd
}

func (a *app) newSetRemoteCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "set-remote <url>",
		Short: "Sync templates from a Git repository (empty url removes it)",
		Long: `Configure a Git repository to sync templates from. The repository is
cloned into the templates directory, or into the data directory when none
is set. Pass an empty url to go back to a plain local directory.

Examples:
  guidebook config set-remote https://github.com/acme/guides.git
  guidebook config set-remote git@github.com:acme/guides.git --branch main
  guidebook config set-remote ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.SetRemote(args[0], branch); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}

			msg := "Remote removed"
			if cfg.RemoteURL != "" {
				msg = "Remote set to " + cfg.RemoteURL
				if cfg.Branch != "" {
					msg += " (" + cfg.Branch + ")"
				}
			}
			a.log().Info("Remote updated", "remote_url", cfg.RemoteURL, "branch", cfg.Branch)
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessStyle.Render(msg))
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to track (default: the remote's default branch)")
	return cmd
}
