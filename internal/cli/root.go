// Package cli implements the guidebook command line.
//
// The root command resolves the templates directory with the precedence
// --dir flag > GUIDEBOOK_TEMPLATES_DIR > config file > default, and every
// subcommand reads templates through a templates.Index built on it.
//
// Environment variables:
//
//	GUIDEBOOK_TEMPLATES_DIR  templates directory, overrides the config file
//	GUIDEBOOK_CONFIG         config file location
//	DEBUG                    write debug logs to ./guidebook.log
package cli

import (
	"context"
	"os"

	"guidebook/internal/config"
	"guidebook/internal/logging"
	"guidebook/internal/source"
	"guidebook/internal/templates"
	"guidebook/pkg/fileops"

	"github.com/spf13/cobra"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	version  string
	dir      string
	logLevel string
	logger   *logging.AppLogger
}

// NewRootCmd builds the command tree. version is reported by --version and
// announced by the MCP server.
func NewRootCmd(version string) *cobra.Command {
	if version == "" {
		version = "dev"
	}
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "guidebook",
		Short: "Serve coding style guides and best practices",
		Long: `Guidebook serves a directory of markdown style guides and best-practice
documents to AI assistants over the Model Context Protocol, and lets you
browse the same documents from the terminal.

Templates are named {language}_style_guide.md or {language}_best_practices.md.

Quick Start:
  guidebook config set-dir ~/guides   Choose the templates directory
  guidebook list                      Show available templates
  guidebook show go style_guide       Print one document
  guidebook serve                     Run the MCP server on stdio`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.initLogger()
		},
	}

	root.PersistentFlags().StringVarP(&a.dir, "dir", "d", "", "templates directory (overrides "+config.EnvTemplatesDir+" and the config file)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level written to stderr (debug, info, warn, error)")

	root.AddCommand(
		a.newServeCmd(),
		a.newListCmd(),
		a.newShowCmd(),
		a.newBrowseCmd(),
		a.newSyncCmd(),
		a.newConfigCmd(),
		a.newAuthCmd(),
	)

	return root
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context, version string) error {
	return NewRootCmd(version).ExecuteContext(ctx)
}

func (a *app) initLogger() {
	if a.logger != nil {
		return
	}
	if a.logLevel != "" {
		a.logger = logging.NewAppLoggerWithLevel(os.Stderr, a.logLevel)
		return
	}
	a.logger = logging.NewAppLogger()
}

func (a *app) log() *logging.AppLogger {
	a.initLogger()
	return a.logger
}

// resolve picks the source for this run and prepares it. When strict is false
// a failed preparation is logged and the unprepared directory is returned so
// that callers can still report per-request errors.
func (a *app) resolve(ctx context.Context, strict bool) (*config.Config, string, source.SyncInfo, error) {
	logger := a.log()

	cfg, err := config.Load()
	if err != nil {
		return nil, "", source.SyncInfo{}, err
	}

	src, err := source.FromConfig(cfg, config.Override(a.dir))
	if err != nil {
		return cfg, "", source.SyncInfo{}, err
	}

	dir, info, err := src.Prepare(ctx, logger)
	if err == nil {
		return cfg, dir, info, nil
	}
	if strict {
		return cfg, "", info, err
	}

	fallback := fallbackDir(src)
	logger.Warn("Template source not ready, continuing", "dir", fallback, "error", err)
	return cfg, fallback, info, nil
}

// index builds a templates.Index on the resolved directory.
func (a *app) index(ctx context.Context, strict bool) (*templates.Index, *config.Config, error) {
	cfg, dir, _, err := a.resolve(ctx, strict)
	if err != nil {
		return nil, cfg, err
	}
	return templates.NewIndex(dir, a.log()), cfg, nil
}

func fallbackDir(src source.Source) string {
	switch s := src.(type) {
	case source.LocalSource:
		return fileops.ExpandPath(s.Path)
	case source.GitSource:
		return fileops.ExpandPath(s.Path)
	}
	return ""
}
