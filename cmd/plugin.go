package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"mcphub/internal/cli"
	"mcphub/internal/plugin"
	"mcphub/internal/plugins"

	"github.com/spf13/cobra"
)

func newPluginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Work with the embedded plugins",
	}
	cmd.AddCommand(newPluginListCmd(), newPluginServeCmd())
	return cmd
}

func newPluginListCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the embedded plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := flags.Printer()
			if err != nil {
				return err
			}
			printer.Out = cmd.OutOrStdout()
			return printer.PrintNames("Plugin", plugins.Names())
		},
	}
	cli.RegisterOutputFlags(cmd, flags)
	return cmd
}

func newPluginServeCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve <name>",
		Short: "Run one embedded plugin as a standalone server",
		Long: `Serves one embedded plugin on its own: its routes at the root and its
catalog at /openapi.json. The port defaults to $PORT, so the command can be
used as the command of an mcpServers entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := plugins.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown plugin %q (available: %v)", args[0], plugins.Names())
			}

			if !cmd.Flags().Changed("port") {
				if env := os.Getenv("PORT"); env != "" {
					p, err := strconv.Atoi(env)
					if err != nil {
						return fmt.Errorf("invalid PORT %q: %w", env, err)
					}
					port = p
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return plugin.Serve(ctx, d, net.JoinHostPort(host, strconv.Itoa(port)))
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen host")
	cmd.Flags().IntVar(&port, "port", 8000, "Listen port (default $PORT)")
	return cmd
}
