// Package plugins is the registry of plugins compiled into mcphub.
package plugins

import (
	"mcphub/internal/plugin"
	"mcphub/internal/plugins/echo"
	"mcphub/internal/plugins/weather"
)

// Builtin returns the descriptors of every embedded plugin in load order.
func Builtin() []plugin.Descriptor {
	return []plugin.Descriptor{
		echo.Descriptor(),
		weather.Descriptor(),
	}
}

// Lookup returns the embedded plugin called name.
func Lookup(name string) (plugin.Descriptor, bool) {
	for _, d := range Builtin() {
		if d.Name == name {
			return d, true
		}
	}
	return plugin.Descriptor{}, false
}

// Names returns the names of every embedded plugin.
func Names() []string {
	builtin := Builtin()
	names := make([]string, 0, len(builtin))
	for _, d := range builtin {
		names = append(names, d.Name)
	}
	return names
}
