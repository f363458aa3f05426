// Package config loads spread's settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults
//  2. the user config file, $XDG_CONFIG_HOME/spread/config.toml
//  3. SPREAD_* entries of .env.local in the working directory
//  4. SPREAD_* environment variables
//  5. command-line flags that were set explicitly
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/spread/pkg/install"
	"github.com/matzehuels/spread/pkg/integrations"
	"github.com/matzehuels/spread/pkg/integrations/registry"
)

const (
	// AppName is used for the config directory and the environment prefix.
	AppName = "spread"

	// ConfigFileName is the user config file inside the config directory.
	ConfigFileName = "config.toml"

	// EnvFile is the dotenv file read from the working directory.
	EnvFile = ".env.local"

	envPrefix = "SPREAD"
)

// Setting keys.
const (
	KeyRegistryURL    = "registry_url"
	KeyHTTPTimeout    = "http_timeout"
	KeyPackageManager = "package_manager"
	KeyProjectDir     = "project_dir"
	KeyMemoSize       = "memo_size"
)

// Keys lists every setting in display order.
var Keys = []string{KeyRegistryURL, KeyHTTPTimeout, KeyPackageManager, KeyProjectDir, KeyMemoSize}

// Config holds the effective settings.
type Config struct {
	RegistryURL    string        `mapstructure:"registry_url"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	PackageManager string        `mapstructure:"package_manager"`
	ProjectDir     string        `mapstructure:"project_dir"`
	MemoSize       int           `mapstructure:"memo_size"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RegistryURL:    registry.DefaultURL,
		HTTPTimeout:    integrations.DefaultTimeout,
		PackageManager: install.DefaultPackageManager,
		ProjectDir:     ".",
		MemoSize:       integrations.DefaultMemoSize,
	}
}

// Validate rejects settings no command can work with.
func (c Config) Validate() error {
	if c.RegistryURL == "" {
		return fmt.Errorf("%s must not be empty", KeyRegistryURL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s must not be negative", KeyHTTPTimeout)
	}
	if c.MemoSize < 0 {
		return fmt.Errorf("%s must not be negative", KeyMemoSize)
	}
	if _, err := install.ParsePackageManager(c.PackageManager); err != nil {
		return err
	}
	return nil
}

// Dir returns the spread config directory.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// LoadOptions controls where settings are read from.
type LoadOptions struct {
	// ConfigFile overrides the user config file. It must exist when set.
	ConfigFile string

	// EnvFile overrides the dotenv file; empty means EnvFile.
	EnvFile string

	// Flags maps setting keys to command-line flags. Only flags the user
	// set take effect.
	Flags map[string]*pflag.Flag
}

// Load reads the layered settings.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()
	defaults := Default()
	v.SetDefault(KeyRegistryURL, defaults.RegistryURL)
	v.SetDefault(KeyHTTPTimeout, defaults.HTTPTimeout)
	v.SetDefault(KeyPackageManager, defaults.PackageManager)
	v.SetDefault(KeyProjectDir, defaults.ProjectDir)
	v.SetDefault(KeyMemoSize, defaults.MemoSize)

	path, required := opts.ConfigFile, opts.ConfigFile != ""
	if !required {
		dir, err := Dir()
		if err == nil {
			path = filepath.Join(dir, ConfigFileName)
		}
	}
	if path != "" {
		if err := mergeTOML(v, path, required); err != nil {
			return Config{}, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = EnvFile
	}
	if err := mergeDotenv(v, envFile); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// mergeTOML merges the TOML file at path. A missing optional file is not an
// error. Integer timeouts are read as seconds.
func mergeTOML(v *viper.Viper, path string, required bool) error {
	var m map[string]any
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if n, ok := m[KeyHTTPTimeout].(int64); ok {
		m[KeyHTTPTimeout] = time.Duration(n) * time.Second
	}
	return v.MergeConfigMap(m)
}

// mergeDotenv merges SPREAD_* entries of a dotenv file. Other entries are
// ignored. A missing file is not an error.
func mergeDotenv(v *viper.Viper, path string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	m := make(map[string]any)
	for name, value := range env {
		key, ok := strings.CutPrefix(name, envPrefix+"_")
		if !ok {
			continue
		}
		m[strings.ToLower(key)] = value
	}
	if len(m) == 0 {
		return nil
	}
	return v.MergeConfigMap(m)
}

// Encode writes c as TOML in the format Load reads.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(fileFormat{
		RegistryURL:    c.RegistryURL,
		HTTPTimeout:    c.HTTPTimeout.String(),
		PackageManager: c.PackageManager,
		ProjectDir:     c.ProjectDir,
		MemoSize:       c.MemoSize,
	})
}

type fileFormat struct {
	RegistryURL    string `toml:"registry_url"`
	HTTPTimeout    string `toml:"http_timeout"`
	PackageManager string `toml:"package_manager"`
	ProjectDir     string `toml:"project_dir"`
	MemoSize       int    `toml:"memo_size"`
}
