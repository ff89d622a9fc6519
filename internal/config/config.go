// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirsle/configdir"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// appName names the per-user configuration directory.
const appName = "mafolex"

// LoadConfig loads configuration from configPath, or from the first default
// location that exists when configPath is empty, then applies environment
// overrides.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range DefaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

// DefaultPaths lists the configuration files searched, in order.
func DefaultPaths() []string {
	dir := Dir()
	return []string{
		".mafolex.yaml",
		".mafolex.yml",
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
	}
}

// Dir returns the per-user configuration directory.
func Dir() string {
	return configdir.LocalConfig(appName)
}

// DefaultLogFile is where the terminal UI logs when no log file is configured.
func DefaultLogFile() string {
	return filepath.Join(Dir(), "mafolex.log")
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	if service := os.Getenv("MAFOLEX_KEYRING_SERVICE"); service != "" {
		cfg.Keyring.Service = service
	}
	if timeout := os.Getenv("MAFOLEX_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.HTTP.Timeout = d
		}
	}
	if retries := os.Getenv("MAFOLEX_MAX_RETRIES"); retries != "" {
		if n, err := parsePositiveInt(retries); err == nil {
			cfg.HTTP.MaxRetries = n
		}
	}
	if mode := os.Getenv("MAFOLEX_OUTPUT_MODE"); mode != "" {
		cfg.Output.Mode = mode
	}
	if header := os.Getenv("MAFOLEX_OUTPUT_HEADER"); header != "" {
		cfg.Output.Header = parseBool(header)
	}
	if level := os.Getenv("MAFOLEX_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("MAFOLEX_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Scope returns the scopes joined the way the apps endpoint expects them.
func (c *Config) Scope() string {
	return strings.Join(c.App.Scopes, " ")
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if c.App.ClientName == "" {
		return fmt.Errorf("app client name cannot be empty")
	}
	if len(c.App.Scopes) == 0 {
		return fmt.Errorf("at least one OAuth scope is required")
	}
	if c.App.RedirectURI == "" {
		return fmt.Errorf("redirect URI cannot be empty")
	}
	if c.Keyring.Service == "" {
		return fmt.Errorf("keyring service cannot be empty")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got: %s", c.HTTP.Timeout)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got: %d", c.HTTP.MaxRetries)
	}
	if c.HTTP.PageLimit <= 0 {
		return fmt.Errorf("page limit must be positive, got: %d", c.HTTP.PageLimit)
	}
	if c.HTTP.PageLimit > 80 {
		return fmt.Errorf("page limit %d exceeds Mastodon API limit of 80", c.HTTP.PageLimit)
	}
	switch c.Output.Mode {
	case "auto", "fancy", "csv", "json":
	default:
		return fmt.Errorf("unknown output mode %q", c.Output.Mode)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
