package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Dir is the per-project directory holding config.yml and exported data.
const Dir = ".phpreflect"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader loads an explicit config file instead of searching rootDir.
func NewFileLoader(rootDir, configFile string) Loader {
	return &loader{rootDir: rootDir, configFile: configFile}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PHPREFLECT_*)
// 2. Config file (.phpreflect/config.yml or .phpreflect/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, Dir))
	}

	// PHPREFLECT_ANALYSIS_FRONTEND overrides analysis.frontend
	v.SetEnvPrefix("PHPREFLECT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("analysis.frontend")
	v.BindEnv("analysis.cache_size")
	v.BindEnv("analysis.max_file_size_kb")
	v.BindEnv("storage.database")
	v.BindEnv("watch.debounce_ms")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Analysis.Frontend = strings.ToLower(strings.TrimSpace(cfg.Analysis.Frontend))

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("analysis.frontend", defaults.Analysis.Frontend)
	v.SetDefault("analysis.cache_size", defaults.Analysis.CacheSize)
	v.SetDefault("analysis.max_file_size_kb", defaults.Analysis.MaxFileSizeKB)

	v.SetDefault("storage.database", defaults.Storage.Database)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
