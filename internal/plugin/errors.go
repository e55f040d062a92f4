package plugin

import (
	"errors"
	"fmt"
)

// LoadError is returned when an embedded plugin is malformed. The aggregator
// skips such plugins with a warning.
type LoadError struct {
	Name   string
	Reason string
	Err    error
}

// NewLoadError creates a new LoadError.
func NewLoadError(name, reason string, err error) *LoadError {
	return &LoadError{Name: name, Reason: reason, Err: err}
}

func (e *LoadError) Error() string {
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("plugin %s: %s", name, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError checks if an error is a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
