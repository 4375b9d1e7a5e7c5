// Package config contains the definition of the application config structure
// and logic required to load and validate it.
package config

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnvVar overrides the configuration file location when set.
const ConfigPathEnvVar = "GITSERVE_CONFIG"

// defaultConfigFile is the path checked before falling back to the XDG
// config home.
const defaultConfigFile = "config.yaml"

// Config represents the configuration of the application.
type Config struct {
	Server       Server       `yaml:"server"`
	Repositories []Repository `yaml:"repositories"`
}

// Server contains the listen address settings.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns the host:port string to bind the HTTP server to.
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Repository describes one served repository: the name it is exposed under,
// the bare repository path on disk, and an optional remote to clone from when
// the path does not exist yet.
type Repository struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	InitFrom string `yaml:"init_from,omitempty"`
}

// defaultPathGenerator generates the fallback config path using xdg
var defaultPathGenerator = func() (string, error) {
	return xdg.ConfigFile("gitserve/config.yaml")
}

// getConfigPath is the current fallback path generator, can be replaced in tests
var getConfigPath = defaultPathGenerator

// Path returns the location the config will be loaded from: the
// GITSERVE_CONFIG env var if set, else ./config.yaml if present, else the
// XDG config home.
func Path() (string, error) {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return getConfigPath()
}

// Load reads the configuration from the resolved path.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the configuration at the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - the config path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is complete and internally
// consistent.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server.host must be set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Repositories) == 0 {
		return fmt.Errorf("at least one repository must be configured")
	}

	seen := make(map[string]struct{}, len(c.Repositories))
	for i, repo := range c.Repositories {
		if repo.Name == "" {
			return fmt.Errorf("repositories[%d].name must be set", i)
		}
		if repo.Path == "" {
			return fmt.Errorf("repository %q: path must be set", repo.Name)
		}
		if _, ok := seen[repo.Name]; ok {
			return fmt.Errorf("duplicate repository name %q", repo.Name)
		}
		seen[repo.Name] = struct{}{}
	}

	return nil
}
