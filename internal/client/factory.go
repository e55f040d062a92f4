package client

import (
	"mcphub/internal/config"
)

// NewConnectorFromConfig picks the connector variant for spec: a command
// means a local process (or stdio when asked for), a url alone means a
// remote server.
func NewConnectorFromConfig(spec config.MCPServer) (Connector, error) {
	if err := config.ValidateServer(spec); err != nil {
		return nil, &ConfigError{Server: spec.Name, Message: err.Error()}
	}

	switch {
	case spec.Command != "":
		if spec.Transport == config.TransportStdio {
			return NewStdioConnector(spec), nil
		}
		return NewLocalProcessConnector(spec), nil
	case spec.URL != "":
		if spec.Transport == config.TransportStdio {
			return nil, &ConfigError{Server: spec.Name, Message: "the stdio transport needs a command"}
		}
		return NewRemoteConnector(spec), nil
	default:
		return nil, &ConfigError{Server: spec.Name, Message: "cannot determine connector type: neither command nor url is set"}
	}
}
