package cmd

import (
	"mcphub/internal/app"

	"github.com/spf13/cobra"
)

type serveOptions struct {
	host        string
	port        int
	watchConfig bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the aggregator",
		Long: `Starts the aggregator: every embedded plugin is mounted under /mcp/<name>,
then every entry of the mcpServers mapping is spawned (entries with a
command) or probed (entries with only a url) and proxied under /mcp/<name>.

Routes:
  GET /mcp            names of the loaded plugins, in load order
  GET /openapi.json   combined catalog of every plugin
  GET /healthz        readiness
  ANY /mcp/<name>/... the plugin's own routes

A server that fails to start or answer is skipped with a warning. Ctrl+C
stops the listener and every spawned child.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, app.ModeAggregator, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default from configuration, localhost)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (default from configuration, 8090)")
	cmd.Flags().BoolVar(&opts.watchConfig, "watch-config", false, "Warn when the configuration file changes")
	return cmd
}

func newHubCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "hub",
		Short: "Serve the tools of every configured server as one MCP server",
		Long: `Connects a client session to every enabled entry of the mcpServers
mapping and registers each server's tools as "<server>/<tool>" on a single
MCP server, served over SSE:

  GET  /mcp        event stream
  POST /messages   client messages

Servers that cannot be reached are skipped with a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, app.ModeHub, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (default from configuration, localhost)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (default from configuration, 8091)")
	cmd.Flags().BoolVar(&opts.watchConfig, "watch-config", false, "Warn when the configuration file changes")
	return cmd
}

func runApp(cmd *cobra.Command, mode app.Mode, opts *serveOptions) error {
	cfg := app.NewConfig(mode, debug, logFormat, configPath)
	cfg.Host = opts.host
	cfg.Port = opts.port
	cfg.WatchConfig = opts.watchConfig
	cfg.Version = rootCmd.Version

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}
	return application.Run(cmd.Context())
}
