package cli

import (
	"guidebook/internal/mcp"

	"github.com/spf13/cobra"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server on stdin/stdout.

Tools: list_templates, get_style_guide, get_best_practices.
Resource template: guidebook://templates/{category}/{language}.

A missing or unreadable templates directory does not stop the server; each
request reports it as an error result instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			index, _, err := a.index(ctx, false)
			if err != nil {
				return err
			}

			a.log().Info("Starting MCP server", "templates_dir", index.Dir(), "version", a.version)
			return mcp.NewServer(index, a.log(), a.version).ServeIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
