// Package config provides centralized configuration management using Viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultShareBaseURL is the host that serves shared profile links.
const DefaultShareBaseURL = "https://openavatar.web.app"

// Config holds all configuration values for openavatar.
type Config struct {
	ProjectID       string `mapstructure:"project_id" yaml:"project_id,omitempty"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file,omitempty"`
	APIKey          string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	StorageBucket   string `mapstructure:"storage_bucket" yaml:"storage_bucket,omitempty"`
	ShareBaseURL    string `mapstructure:"share_base_url" yaml:"share_base_url,omitempty"`
	DataDir         string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	LogLevel        string `mapstructure:"log_level" yaml:"log_level,omitempty"`
	LogFile         string `mapstructure:"log_file" yaml:"log_file,omitempty"`
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr,omitempty"`
}

var envKeys = []string{
	"project_id",
	"credentials_file",
	"api_key",
	"storage_bucket",
	"share_base_url",
	"data_dir",
	"log_level",
	"log_file",
	"listen_addr",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("openavatar")

	v.SetDefault("project_id", "")
	v.SetDefault("credentials_file", "")
	v.SetDefault("api_key", "")
	v.SetDefault("storage_bucket", "")
	v.SetDefault("share_base_url", DefaultShareBaseURL)
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("listen_addr", ":8080")

	v.SetEnvPrefix("OPENAVATAR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key, "OPENAVATAR_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate reports settings that make the Firebase backend unusable.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ProjectID) == "" {
		errs = append(errs, errors.New("project_id is required"))
	}
	if strings.TrimSpace(c.APIKey) == "" {
		errs = append(errs, errors.New("api_key is required for password sign-in"))
	}
	if c.CredentialsFile != "" && !fileExists(c.CredentialsFile) {
		errs = append(errs, fmt.Errorf("credentials_file %s does not exist", c.CredentialsFile))
	}
	if u, err := url.Parse(c.ShareBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("share_base_url %q is not an absolute URL", c.ShareBaseURL))
	}
	return errors.Join(errs...)
}

// Bucket returns the storage bucket, defaulting to the project's
// firebasestorage bucket.
func (c *Config) Bucket() string {
	if c.StorageBucket != "" {
		return c.StorageBucket
	}
	if c.ProjectID == "" {
		return ""
	}
	return c.ProjectID + ".appspot.com"
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns ~/.config/openavatar/openavatar.yml or
// $XDG_CONFIG_HOME/openavatar/openavatar.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "openavatar", "openavatar.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "openavatar", "openavatar.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "openavatar.yml"
}

// DefaultDataDir returns $XDG_DATA_HOME/openavatar or ~/.local/share/openavatar.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "openavatar")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "openavatar")
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	// 0600: the file carries an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
