package cmd

import (
	"mcphub/internal/cli"

	"github.com/spf13/cobra"
)

func newPluginsCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins of a running aggregator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := flags.Printer()
			if err != nil {
				return err
			}
			printer.Out = cmd.OutOrStdout()

			names, err := cli.NewAggregatorClient(flags.Endpoint).Names(cmd.Context())
			if err != nil {
				return err
			}
			return printer.PrintNames("Plugin", names)
		},
	}

	cli.RegisterOutputFlags(cmd, flags)
	cli.RegisterEndpointFlag(cmd, flags)
	return cmd
}

func newCatalogCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the combined catalog of a running aggregator",
		Long: `Fetches /openapi.json from a running aggregator. The document is printed
as JSON, or as YAML with --output yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := flags.Printer()
			if err != nil {
				return err
			}
			printer.Out = cmd.OutOrStdout()

			doc, err := cli.NewAggregatorClient(flags.Endpoint).Catalog(cmd.Context())
			if err != nil {
				return err
			}
			return printer.PrintJSONBytes(doc)
		},
	}

	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", string(cli.OutputFormatJSON), "Output format (json, yaml)")
	cli.RegisterEndpointFlag(cmd, flags)
	return cmd
}
