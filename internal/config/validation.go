package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateName checks that name can be used as a plugin namespace. Names
// become the path segment below /mcp/, so only letters, digits, '.', '_' and
// '-' are accepted, and "." and ".." are rejected.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Value: name, Message: "is required"}
	}
	if strings.ContainsAny(name, `/\`) {
		return ValidationError{Field: "name", Value: name, Message: "must not contain path separators"}
	}
	if strings.ContainsAny(name, " \t\n") {
		return ValidationError{Field: "name", Value: name, Message: "must not contain whitespace"}
	}
	if !namePattern.MatchString(name) {
		return ValidationError{Field: "name", Value: name, Message: "may only contain letters, digits, '.', '_' and '-'"}
	}
	if name == "." || name == ".." {
		return ValidationError{Field: "name", Value: name, Message: "must not be a relative path element"}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks the settings that apply to the whole process and returns
// every problem found as ValidationErrors, or nil. Individual mcpServers
// entries are not checked here: a bad entry only disables that server, see
// ValidateServer.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if cfg.Aggregator.Port < 0 || cfg.Aggregator.Port > 65535 {
		errs.Add("aggregator.port", "must be between 0 and 65535", cfg.Aggregator.Port)
	}
	if cfg.Aggregator.SpawnPortBase < 1 || cfg.Aggregator.SpawnPortBase > 65535 {
		errs.Add("aggregator.spawnPortBase", "must be between 1 and 65535", cfg.Aggregator.SpawnPortBase)
	}
	if cfg.Aggregator.ReadyTimeout < 0 {
		errs.Add("aggregator.readyTimeout", "must be positive", cfg.Aggregator.ReadyTimeout)
	}
	if cfg.Aggregator.PollInterval < 0 {
		errs.Add("aggregator.pollInterval", "must be positive", cfg.Aggregator.PollInterval)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidateServer checks a single mcpServers entry.
func ValidateServer(server MCPServer) error {
	var errs ValidationErrors
	prefix := "mcpServers." + server.Name

	if err := ValidateName(server.Name); err != nil {
		ve := err.(ValidationError)
		ve.Field = prefix + "." + ve.Field
		errs = append(errs, ve)
	}
	if server.URL != "" {
		if u, err := url.Parse(server.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add(prefix+".url", "must be an absolute http(s) URL", server.URL)
		}
	}
	if server.Transport != "" {
		if err := ValidateOneOf(prefix+".transport", server.Transport,
			[]string{TransportStreamableHTTP, TransportSSE, TransportStdio}); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}
	if server.Transport == TransportStdio && !server.Spawned() {
		errs.Add(prefix+".command", "is required for the stdio transport")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// InvalidServers returns the problems of every entry that ValidateServer
// rejects, plus entries whose name is used more than once, in configuration
// order.
func InvalidServers(cfg Config) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(cfg.MCPServers))
	for _, server := range cfg.MCPServers {
		if err := ValidateServer(server); err != nil {
			errs = append(errs, err.(ValidationErrors)...)
		}
		if seen[server.Name] {
			errs.Add("mcpServers."+server.Name, "is defined more than once")
		}
		seen[server.Name] = true
	}
	return errs
}
