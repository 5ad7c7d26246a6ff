// Package config loads the canopy configuration from
// ~/.config/canopy/config.toml.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/canopydev/canopy/internal/repo"
)

// Config holds the canopy configuration.
type Config struct {
	// Roots are the workspace directories clones live under.
	// The first root is the default clone target.
	Roots []string `toml:"roots"`

	// Layout selects the directory scheme: "host" (default,
	// <root>/<hostname>/<user>/<repo>) or "flat" (legacy,
	// <root>/<user>/<repo>).
	Layout string `toml:"layout"`

	// Shell overrides $SHELL for `canopy find --shell`.
	Shell string `toml:"shell"`

	// Hosts maps custom domains to a forge type, e.g.
	// "github.mycompany.com" = "github".
	Hosts map[string]string `toml:"hosts"`
}

type ctxKey struct{}

// WithConfig attaches a config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns the defaults if none is attached.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}

// Default returns the default configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Roots:  []string{filepath.Join(home, "workspace")},
		Layout: string(repo.LayoutHost),
	}
}

// DefaultRoot returns the clone target root.
func (c *Config) DefaultRoot() string {
	return c.Roots[0]
}

// RepoLayout returns the configured directory layout.
func (c *Config) RepoLayout() repo.Layout {
	if c.Layout == string(repo.LayoutFlat) {
		return repo.LayoutFlat
	}
	return repo.LayoutHost
}

// rawConfig covers every shape the config file has had. The oldest
// variant stored a single `root`; it is still read and folded into
// Roots so existing installs keep working.
type rawConfig struct {
	Root   string            `toml:"root"`
	Roots  []string          `toml:"roots"`
	Layout string            `toml:"layout"`
	Shell  string            `toml:"shell"`
	Hosts  map[string]string `toml:"hosts"`
}

// path returns the path to the config file.
func path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "canopy", "config.toml"), nil
}

// Load reads the config file.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config file: %w", err)
	}

	return parse(data)
}

// parse decodes and validates config file contents.
func parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("parse config file: %w", err)
	}

	cfg := Config{
		Roots:  raw.Roots,
		Layout: raw.Layout,
		Shell:  raw.Shell,
		Hosts:  raw.Hosts,
	}

	// Legacy single-root key, folded in ahead of roots.
	if raw.Root != "" {
		cfg.Roots = append([]string{raw.Root}, cfg.Roots...)
	}

	if len(cfg.Roots) == 0 {
		cfg.Roots = Default().Roots
	}

	for i, root := range cfg.Roots {
		if err := validatePath(root, "roots"); err != nil {
			return Default(), err
		}
		expanded, err := expandPath(root)
		if err != nil {
			return Default(), fmt.Errorf("expand roots: %w", err)
		}
		cfg.Roots[i] = expanded
	}

	switch cfg.Layout {
	case "", string(repo.LayoutHost), string(repo.LayoutFlat):
	default:
		return Default(), fmt.Errorf("invalid layout %q: must be \"host\" or \"flat\"", cfg.Layout)
	}
	if cfg.Layout == "" {
		cfg.Layout = string(repo.LayoutHost)
	}

	for host, forgeType := range cfg.Hosts {
		if forgeType != "github" {
			return Default(), fmt.Errorf("invalid forge type %q for host %q: must be \"github\"", forgeType, host)
		}
	}

	return cfg, nil
}

// validatePath checks that the path is absolute or starts with ~.
// Relative paths (like "." or "..") would make the derived repo
// directories depend on the invocation directory.
func validatePath(p, fieldName string) error {
	if p == "" {
		return nil
	}
	if p[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(p) {
		return fmt.Errorf("%s entries must be absolute or start with ~, got: %q", fieldName, p)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
// The shell doesn't expand ~ inside config files.
func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if len(p) >= 2 && p[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, p[2:]), nil
	}
	if p == "~" {
		return os.UserHomeDir()
	}
	return p, nil
}

const defaultConfig = `# canopy configuration

# Workspace roots. Clones land under the first root; every root is
# scanned by "canopy scan". Entries must be absolute or start with ~.
# roots = ["~/workspace"]

# Directory layout for clones:
#   "host" - <root>/<hostname>/<user>/<repo>   (default)
#   "flat" - <root>/<user>/<repo>              (legacy, no per-host isolation)
# layout = "host"

# Shell launched by "canopy find --shell" (defaults to $SHELL).
# shell = "/bin/zsh"

# Host mappings - for self-hosted instances. Maps custom domains to a
# forge type so "canopy open" can build browse URLs for them.
#
# [hosts]
# "github.mycompany.com" = "github"
`

// Init creates a default config file at ~/.config/canopy/config.toml.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	p, err := path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(p); err == nil {
			return "", errors.New("config file already exists: " + p)
		}
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(p, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}

	return p, nil
}
