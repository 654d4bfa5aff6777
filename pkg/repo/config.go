package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config stores repository-local settings read from .grit/config.toml.
type Config struct {
	User UserConfig `toml:"user"`
	Core CoreConfig `toml:"core"`
}

// UserConfig is the identity recorded in commits and annotated tags.
type UserConfig struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// CoreConfig holds repository-wide behavior settings.
type CoreConfig struct {
	DefaultBranch string `toml:"defaultBranch"`
}

// DefaultConfig returns the config a fresh repository starts with.
func DefaultConfig() *Config {
	return &Config{Core: CoreConfig{DefaultBranch: "main"}}
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GritDir, "config.toml")
}

// ReadConfig reads .grit/config.toml. A missing file returns the defaults.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(r.configPath(), cfg); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if strings.TrimSpace(cfg.Core.DefaultBranch) == "" {
		cfg.Core.DefaultBranch = "main"
	}
	return cfg, nil
}

// WriteConfig atomically writes .grit/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tmp, err := os.CreateTemp(r.GritDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// Identity returns the configured "Name <email>" string used for commit and
// tag metadata. Fallbacks: $USER, then "unknown".
func (c *Config) Identity() string {
	name := strings.TrimSpace(c.User.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "unknown"
	}
	email := strings.TrimSpace(c.User.Email)
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
