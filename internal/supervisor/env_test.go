package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		defaultPort int
		wantPort    int
		wantBase    string
		wantErr     bool
	}{
		{name: "no url", url: "", defaultPort: 9100, wantPort: 9100, wantBase: "http://127.0.0.1:9100"},
		{name: "explicit port", url: "http://localhost:4010/", defaultPort: 9100, wantPort: 4010, wantBase: "http://localhost:4010"},
		{name: "no port in url", url: "http://localhost", defaultPort: 9101, wantPort: 9101, wantBase: "http://localhost:9101"},
		{name: "path kept", url: "http://localhost/api", defaultPort: 9102, wantPort: 9102, wantBase: "http://localhost:9102/api"},
		{name: "relative", url: "localhost:4010", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, base, err := Endpoint(tt.url, tt.defaultPort)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, port)
			assert.Equal(t, tt.wantBase, base)
		})
	}
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/root", "PORT=1", "HOME=/home/me", "BROKEN"}
	env := MergeEnv(base, map[string]string{"HOME": "/srv", "DEBUG": "1"}, 9100)

	assert.Equal(t, []string{"PATH=/usr/bin", "HOME=/srv", "PORT=9100", "DEBUG=1"}, env)
}

func TestMergeEnv_PortOverridesSpecEnv(t *testing.T) {
	env := MergeEnv(nil, map[string]string{"PORT": "1234"}, 9100)
	assert.Equal(t, []string{"PORT=9100"}, env)
}
