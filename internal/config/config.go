package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"guidebook/internal/logging"
	"guidebook/pkg/fileops"

	"github.com/adrg/xdg"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "guidebook" // application name used for config and data directories

	// EnvTemplatesDir overrides the configured templates directory.
	EnvTemplatesDir = "GUIDEBOOK_TEMPLATES_DIR"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "GUIDEBOOK_CONFIG"

	currentVersion = "1.0"
)

// Config holds user configuration for guidebook.
type Config struct {
	// TemplatesDir is the directory holding the template files. With a
	// remote configured it is where the repository is cloned.
	TemplatesDir string `yaml:"templates_dir,omitempty"`
	// RemoteURL is an optional Git repository the templates are synced from.
	RemoteURL string `yaml:"remote_url,omitempty"`
	// Branch of RemoteURL to track. Empty means the remote's default.
	Branch   string `yaml:"branch,omitempty"`
	Version  string `yaml:"version"`   // Track config version
	InitTime int64  `yaml:"init_time"` // Unix timestamp of first save
}

// ConfigPath returns the config file location: $GUIDEBOOK_CONFIG when set,
// otherwise <xdg config home>/guidebook/config.yaml.
func ConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	path := filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
	logging.Debug("Determined config path", "path", path)
	return path
}

// DefaultDataDir is <xdg data home>/guidebook.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultTemplatesDir is where templates live when nothing else is configured.
func DefaultTemplatesDir() string {
	return filepath.Join(DefaultDataDir(), "templates")
}

// DefaultConfig returns a Config with no directory or remote set.
func DefaultConfig() Config {
	return Config{
		Version:  currentVersion,
		InitTime: 0, // set during first save
	}
}

// Load reads the config from ConfigPath. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadOrDefault(ConfigPath())
}

// LoadOrDefault is LoadFrom, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("No config file, using defaults", "path", path)
		def := DefaultConfig()
		return &def, nil
	}
	return cfg, err
}

// LoadFrom loads config from a specific path. An empty file decodes to the
// defaults.
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to ConfigPath.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo atomically writes the config to path, readable only by the owner.
func (c *Config) SaveTo(path string) error {
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}
	if c.Version == "" {
		c.Version = currentVersion
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}

	logging.Debug("Config saved", "path", path)
	return nil
}

// Override returns the templates directory forced by the --dir flag or the
// environment, flag first. Empty means the config decides.
func Override(flagDir string) string {
	if dir := strings.TrimSpace(flagDir); dir != "" {
		return dir
	}
	return strings.TrimSpace(os.Getenv(EnvTemplatesDir))
}

// ResolveTemplatesDir applies the precedence flag > environment > config file
// > default. The result is not expanded or validated.
func (c *Config) ResolveTemplatesDir(flagDir string) string {
	if dir := Override(flagDir); dir != "" {
		return dir
	}
	if c.TemplatesDir != "" {
		return c.TemplatesDir
	}
	return DefaultTemplatesDir()
}

// SetTemplatesDir validates dir and stores its expanded form. It does not
// save.
func (c *Config) SetTemplatesDir(dir string) error {
	if err := fileops.ValidateStoragePath(dir); err != nil {
		return fmt.Errorf("invalid templates directory: %w", err)
	}
	c.TemplatesDir = fileops.ExpandPath(dir)
	return nil
}

// SetRemote configures the Git remote and branch. An empty url removes the
// remote. It does not save.
func (c *Config) SetRemote(url, branch string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		c.RemoteURL = ""
		c.Branch = ""
		return nil
	}
	if strings.ContainsAny(url, " \t\n") {
		return fmt.Errorf("invalid remote URL %q", url)
	}
	c.RemoteURL = url
	c.Branch = strings.TrimSpace(branch)
	return nil
}
