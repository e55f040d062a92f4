package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when a connector is used before Connect.
	ErrNotConnected = errors.New("MCP client is not connected")

	// ErrServerNotFound is returned for session names missing from the
	// configuration.
	ErrServerNotFound = errors.New("server not found in config")
)

// ConfigError is returned when a server entry does not say how to reach it.
type ConfigError struct {
	Server  string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Server == "" {
		return e.Message
	}
	return fmt.Sprintf("server %s: %s", e.Server, e.Message)
}

// IsConfigError checks if an error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
