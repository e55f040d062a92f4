package plugin

import (
	"fmt"

	"mcphub/internal/catalog"
	"mcphub/internal/config"
)

// Descriptor describes one embedded plugin. Descriptors are immutable once
// loaded.
type Descriptor struct {
	// Name is the namespace the plugin is mounted under. It must be unique
	// and must not contain path separators.
	Name string

	// Catalog describes the routes the plugin registers.
	Catalog catalog.Source

	// Register wires the plugin's routes. Patterns are relative to the
	// plugin's namespace.
	Register func(ns *Namespace)
}

// Validate reports a LoadError if d cannot be loaded.
func Validate(d Descriptor) error {
	if err := config.ValidateName(d.Name); err != nil {
		return NewLoadError(d.Name, fmt.Sprintf("invalid name: %v", err), err)
	}
	if d.Register == nil {
		return NewLoadError(d.Name, "missing register hook", nil)
	}
	return nil
}
