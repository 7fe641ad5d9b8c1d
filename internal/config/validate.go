package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFrontend indicates an unsupported analysis front end
	ErrInvalidFrontend = errors.New("invalid analysis frontend")

	// ErrInvalidCacheSize indicates a negative token cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidFileSize indicates a non-positive file size limit
	ErrInvalidFileSize = errors.New("invalid max file size")

	// ErrEmptyInclude indicates that no include pattern is configured
	ErrEmptyInclude = errors.New("empty include patterns")

	// ErrEmptyDatabase indicates a missing snapshot database path
	ErrEmptyDatabase = errors.New("empty storage database")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}
	if err := validateAnalysis(&cfg.Analysis); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(cfg.Storage.Database) == "" {
		errs = append(errs, fmt.Errorf("%w: database path is required", ErrEmptyDatabase))
	}
	if cfg.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMS))
	}

	return joinErrors(errs)
}

func validatePaths(cfg *PathsConfig) error {
	if len(cfg.Include) == 0 {
		return fmt.Errorf("%w: at least one include pattern required", ErrEmptyInclude)
	}
	return nil
}

func validateAnalysis(cfg *AnalysisConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Frontend) {
	case FrontendTokens, FrontendAST:
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidFrontend, FrontendTokens, FrontendAST, cfg.Frontend))
	}

	// zero disables the token cache
	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size cannot be negative, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	if cfg.MaxFileSizeKB <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size_kb must be positive, got %d", ErrInvalidFileSize, cfg.MaxFileSizeKB))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every sentinel through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: "validation failed:\n  - " + strings.Join(msgs, "\n  - "), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
