package plugins

import (
	"testing"

	"mcphub/internal/plugin"

	"github.com/stretchr/testify/assert"
)

func TestBuiltin(t *testing.T) {
	assert.Equal(t, []string{"echo", "weather"}, Names())
	for _, d := range Builtin() {
		assert.NoError(t, plugin.Validate(d), d.Name)
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("weather")
	assert.True(t, ok)
	assert.Equal(t, "weather", d.Name)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}
