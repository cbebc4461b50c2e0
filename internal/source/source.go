package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"guidebook/internal/config"
	"guidebook/internal/logging"
	"guidebook/pkg/fileops"
)

// Source resolves to a local directory holding template files.
type Source interface {
	// Prepare validates and, where needed, synchronises the source. It
	// returns the absolute templates directory and what happened on the way.
	Prepare(ctx context.Context, logger *logging.AppLogger) (localPath string, info SyncInfo, err error)
}

// SyncInfo describes the outcome of Prepare for user messaging.
type SyncInfo struct {
	Cloned  bool   // a clone occurred
	Updated bool   // a fetch brought in new commits
	Dirty   bool   // local changes blocked the sync
	Message string // one-line summary
}

// LocalSource is a plain directory. No network operations are performed.
type LocalSource struct {
	// Path is absolute or "~/"-relative.
	Path string
}

func NewLocalSource(path string) LocalSource {
	return LocalSource{Path: path}
}

// Prepare validates the directory and returns its absolute path.
func (ls LocalSource) Prepare(ctx context.Context, logger *logging.AppLogger) (string, SyncInfo, error) {
	if logger != nil {
		logger.Debug("Preparing local template source", "path", ls.Path)
	}

	trimmed := strings.TrimSpace(ls.Path)
	if trimmed == "" {
		return "", SyncInfo{}, fmt.Errorf("templates directory cannot be empty")
	}

	clean := filepath.Clean(fileops.ExpandPath(trimmed))
	if err := fileops.ValidateStoragePath(clean); err != nil {
		return "", SyncInfo{}, fmt.Errorf("invalid templates directory: %w", err)
	}

	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return "", SyncInfo{}, fmt.Errorf("templates directory does not exist: %s", clean)
		}
		return "", SyncInfo{}, fmt.Errorf("cannot access templates directory: %w", err)
	}
	if !info.IsDir() {
		return "", SyncInfo{}, fmt.Errorf("templates path is not a directory: %s", clean)
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		abs = clean
	}

	return abs, SyncInfo{Message: "Using local templates directory"}, nil
}

// FromConfig picks the source for a run. A non-empty override (the --dir flag
// or GUIDEBOOK_TEMPLATES_DIR) always means a local directory. Otherwise a
// configured remote gives a GitSource cloned into the configured directory,
// or into DefaultClonePath when none is set.
func FromConfig(cfg *config.Config, override string) (Source, error) {
	if override != "" {
		return NewLocalSource(override), nil
	}

	if cfg.RemoteURL == "" {
		return NewLocalSource(cfg.ResolveTemplatesDir("")), nil
	}

	path := cfg.TemplatesDir
	if path == "" {
		var err error
		path, err = DefaultClonePath(cfg.RemoteURL)
		if err != nil {
			return nil, err
		}
	}
	return NewGitSource(cfg.RemoteURL, cfg.Branch, path), nil
}

// DefaultClonePath is <xdg data home>/guidebook/<repo> for remoteURL.
func DefaultClonePath(remoteURL string) (string, error) {
	info, err := ParseGitURL(remoteURL)
	if err != nil {
		return "", fmt.Errorf("cannot derive clone path: %w", err)
	}
	return filepath.Join(config.DefaultDataDir(), info.Repo), nil
}
