package aggregator

import "mcphub/internal/catalog"

// Kind tells how a plugin is served.
type Kind string

const (
	// KindEmbedded plugins are compiled into mcphub.
	KindEmbedded Kind = "embedded"
	// KindSpawned plugins are child processes started by mcphub.
	KindSpawned Kind = "spawned"
	// KindHosted plugins run elsewhere and are only proxied.
	KindHosted Kind = "hosted"
)

// LoadedSpec is a plugin that was loaded successfully.
type LoadedSpec struct {
	Name    string
	Kind    Kind
	Catalog catalog.Document

	// BaseURL is empty for embedded plugins.
	BaseURL string
}
