package cmd

import (
	"context"
	"errors"
	"fmt"

	"mcphub/internal/cli"
	"mcphub/internal/client"
	"mcphub/internal/repl"

	"github.com/spf13/cobra"
)

// newClient builds the session manager for the client commands.
var newClient = func() (*client.MCPClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.New(cfg), nil
}

func newToolsCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	cmd := &cobra.Command{
		Use:   "tools [server...]",
		Short: "List the tools of configured servers",
		Long: `Connects to the named servers, or to every enabled server when none is
named, and lists their tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := flags.Printer()
			if err != nil {
				return err
			}
			printer.Out = cmd.OutOrStdout()

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer c.CloseAllSessions(context.Background())

			names := args
			if len(names) == 0 {
				for _, spec := range c.Config().MCPServers {
					if !spec.Disabled {
						names = append(names, spec.Name)
					}
				}
			}

			var (
				lists []cli.ServerTools
				errs  []error
			)
			for _, name := range names {
				var session client.Connector
				err := cli.RunWithSpinner(flags.Quiet, fmt.Sprintf("Connecting to %s...", name), func() error {
					var err error
					session, err = c.CreateSession(ctx, name, true)
					return err
				})
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
					continue
				}
				tools, err := session.ListTools(ctx)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
					continue
				}
				lists = append(lists, cli.ServerTools{Server: name, Tools: tools})
			}

			if err := printer.PrintTools(lists); err != nil {
				return err
			}
			return errors.Join(errs...)
		},
	}

	cli.RegisterOutputFlags(cmd, flags)
	return cmd
}

func newCallCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	var rawArgs string
	cmd := &cobra.Command{
		Use:   "call <server> <tool>",
		Short: "Call one tool of a configured server",
		Example: `  mcphub call weather get_weather --args '{"city": "Berlin"}'
  mcphub call echo echo --args '{"msg": "hello"}' -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer, err := flags.Printer()
			if err != nil {
				return err
			}
			printer.Out = cmd.OutOrStdout()

			toolArgs, err := repl.ParseArgs(rawArgs)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer c.CloseAllSessions(context.Background())

			server, tool := args[0], args[1]
			var session client.Connector
			err = cli.RunWithSpinner(flags.Quiet, fmt.Sprintf("Connecting to %s...", server), func() error {
				var err error
				session, err = c.CreateSession(ctx, server, false)
				return err
			})
			if err != nil {
				return err
			}

			result, err := session.CallTool(ctx, tool, toolArgs)
			if err != nil {
				return err
			}
			return printer.PrintToolResult(result, client.ResultText)
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "", "Tool arguments as a JSON object")
	cli.RegisterOutputFlags(cmd, flags)
	return cmd
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Explore configured servers interactively",
		Long: `Starts an interactive shell over the configured servers. Sessions are
opened on first use and closed on exit.

Commands: servers, tools <server>, call <server> <tool> [json], help, exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			return repl.New(c, cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}
