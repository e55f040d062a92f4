package config

import (
	"errors"
	"fmt"
)

// ConfigurationError is returned when a configuration file cannot be read
// or does not describe a valid configuration.
type ConfigurationError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	if ce.Err == nil {
		return fmt.Sprintf("%s: %s", ce.Path, ce.Message)
	}
	return fmt.Sprintf("%s: %s: %v", ce.Path, ce.Message, ce.Err)
}

func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
