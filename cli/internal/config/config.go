// Package config manages the CLI's profile store in ~/.indra/config.yaml.
// Profiles name a server endpoint plus the credentials last used against it;
// defaults cover the profile-less quick start and can be overridden through
// INDRA_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	CurrentProfile string              `yaml:"current_profile" mapstructure:"current_profile"`
	Profiles       map[string]*Profile `yaml:"profiles" mapstructure:"profiles"`
	Defaults       *Defaults           `yaml:"defaults" mapstructure:"defaults"`
	path           string
}

type Profile struct {
	URL      string `yaml:"url" mapstructure:"url"`
	CAFile   string `yaml:"ca_file,omitempty" mapstructure:"ca_file"`
	Insecure bool   `yaml:"insecure,omitempty" mapstructure:"insecure"`
	Username string `yaml:"username,omitempty" mapstructure:"username"`
	Token    string `yaml:"token,omitempty" mapstructure:"token"`
}

type Defaults struct {
	URL string `yaml:"url" mapstructure:"url"`
}

func Default() *Config {
	return &Config{
		CurrentProfile: "default",
		Profiles:       make(map[string]*Profile),
		Defaults: &Defaults{
			URL: "ws://localhost:8080/ws",
		},
	}
}

// Load reads the config file (default ~/.indra/config.yaml) and applies
// INDRA_* environment overrides on top of the defaults. A missing file is
// not an error.
func Load(cfgFile string) (*Config, error) {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfgFile = filepath.Join(home, ".indra", "config.yaml")
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	v.SetConfigType("yaml")

	v.SetDefault("current_profile", "default")
	v.SetDefault("defaults.url", "ws://localhost:8080/ws")

	v.SetEnvPrefix("INDRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv does not cover keys absent from the file; bind the
	// overridable ones explicitly.
	_ = v.BindEnv("defaults.url", "INDRA_URL")
	_ = v.BindEnv("current_profile", "INDRA_PROFILE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Default()
	cfg.path = cfgFile
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]*Profile)
	}
	if cfg.Defaults == nil {
		cfg.Defaults = Default().Defaults
	}

	return cfg, nil
}

func (c *Config) Save() error {
	if c.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.path = filepath.Join(home, ".indra", "config.yaml")
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// SaveProfile stores p under name, makes it current and persists the file.
func (c *Config) SaveProfile(name string, p *Profile) error {
	if c.Profiles == nil {
		c.Profiles = make(map[string]*Profile)
	}

	c.Profiles[name] = p
	c.CurrentProfile = name
	return c.Save()
}

func (c *Config) GetProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.CurrentProfile
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}

	return profile, nil
}

func (c *Config) RemoveProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(c.Profiles, name)

	if c.CurrentProfile == name {
		c.CurrentProfile = ""
	}

	return c.Save()
}

// GetURL resolves the server endpoint for a profile, falling back to the
// defaults when the profile is missing or has no URL of its own.
func (c *Config) GetURL(profile string) string {
	if p, err := c.GetProfile(profile); err == nil && p.URL != "" {
		return p.URL
	}
	return c.Defaults.URL
}
