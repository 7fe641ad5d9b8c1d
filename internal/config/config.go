package config

// Config represents the complete php-reflect configuration.
// It can be loaded from .phpreflect/config.yml with environment variable overrides.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for PHP sources
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// AnalysisConfig selects the front end and bounds the work done per file.
type AnalysisConfig struct {
	Frontend      string `yaml:"frontend" mapstructure:"frontend"`                 // "tokens" or "ast"
	CacheSize     int    `yaml:"cache_size" mapstructure:"cache_size"`             // token streams kept in memory
	MaxFileSizeKB int    `yaml:"max_file_size_kb" mapstructure:"max_file_size_kb"` // larger files are skipped
}

// StorageConfig defines where snapshots are exported.
type StorageConfig struct {
	Database string `yaml:"database" mapstructure:"database"` // SQLite file, relative to the project root
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

const (
	FrontendTokens = "tokens"
	FrontendAST    = "ast"
)

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.php",
				"**/*.inc",
				"**/*.phtml",
			},
			Ignore: []string{
				"vendor/**",
				"node_modules/**",
				".git/**",
				".phpreflect/**",
				"cache/**",
			},
		},
		Analysis: AnalysisConfig{
			Frontend:      FrontendTokens,
			CacheSize:     1000,
			MaxFileSizeKB: 1024,
		},
		Storage: StorageConfig{
			Database: ".phpreflect/reflect.db",
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}
