package cli

import (
	"fmt"
	"os"

	"mcphub/internal/config"

	"github.com/spf13/cobra"
)

// EndpointEnvVar overrides the default aggregator endpoint.
const EndpointEnvVar = "MCPHUB_ENDPOINT"

// CommandFlags holds the flag values shared by commands that print results.
type CommandFlags struct {
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Endpoint is the base URL of a running aggregator
	Endpoint string
}

// GetDefaultEndpoint returns the endpoint from the environment, or the
// default aggregator address.
func GetDefaultEndpoint() string {
	if endpoint := os.Getenv(EndpointEnvVar); endpoint != "" {
		return endpoint
	}
	return fmt.Sprintf("http://%s:%d", config.DefaultHost, config.DefaultPort)
}

// RegisterOutputFlags registers --output, --no-headers and --quiet.
func RegisterOutputFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
}

// RegisterEndpointFlag registers --endpoint.
func RegisterEndpointFlag(cmd *cobra.Command, flags *CommandFlags) {
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", GetDefaultEndpoint(), "Aggregator base URL (env: "+EndpointEnvVar+")")
}

// Printer validates the output flags and returns a printer for them.
func (f *CommandFlags) Printer() (*Printer, error) {
	if err := ValidateOutputFormat(f.OutputFormat); err != nil {
		return nil, err
	}
	return NewPrinter(OutputFormat(f.OutputFormat), f.NoHeaders), nil
}
