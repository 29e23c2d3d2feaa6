package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationMissing marks failures caused by absent required settings,
	// such as a source credential. They are surfaced to callers and never retried.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrSourceUnavailable marks a source that could not deliver items this cycle.
	ErrSourceUnavailable = errors.New("source unavailable")

	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ConfigurationError names the source and setting that is missing.
type ConfigurationError struct {
	Source  string
	Setting string
	Hint    string
}

func (e *ConfigurationError) Error() string {
	if e.Hint != "" {
		return e.Hint
	}
	return fmt.Sprintf("source %q: %s is required", e.Source, e.Setting)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfigurationMissing
}

// SourceError describes why a single source produced no items.
type SourceError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("source %q unavailable: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("source %q unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceUnavailable}
	}
	return []error{ErrSourceUnavailable, e.Err}
}

// IsConfiguration reports whether err belongs to the configuration class.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfigurationMissing)
}

// IsNotFound reports whether err means no snapshot has been stored yet.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound)
}
