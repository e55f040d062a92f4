// Package repl implements the interactive shell of mcphub repl: list the
// configured servers, inspect their tools and call them.
package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mcphub/internal/cli"
	"mcphub/internal/client"

	"github.com/chzyer/readline"
)

// ErrExit is returned by Execute for the exit command.
var ErrExit = errors.New("exit")

const commandTimeout = 5 * time.Minute

// REPL is an interactive loop over the sessions of one MCPClient.
type REPL struct {
	client  *client.MCPClient
	printer *cli.Printer
	out     io.Writer
}

// New creates a REPL writing to out.
func New(c *client.MCPClient, out io.Writer) *REPL {
	return &REPL{
		client:  c,
		printer: &cli.Printer{Out: out, Format: cli.OutputFormatTable},
		out:     out,
	}
}

// Run reads commands until exit, EOF or ctx is done. Sessions opened along
// the way are closed before returning.
func (r *REPL) Run(ctx context.Context) error {
	defer func() {
		_ = r.client.CloseAllSessions(context.Background())
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "mcphub» ",
		HistoryFile:       filepath.Join(os.TempDir(), ".mcphub_history"),
		AutoComplete:      r.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(r.out, "Type 'help' for available commands. Use TAB for completion.")
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		if err := r.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			fmt.Fprintln(r.out, cli.FormatError(err))
		}
	}
}

// Execute runs one command line.
func (r *REPL) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "help", "?":
		r.help()
		return nil
	case "exit", "quit":
		return ErrExit
	case "servers":
		return r.printer.PrintNames("Server", r.client.Config().ServerNames())
	case "tools":
		if len(args) != 1 {
			return errors.New("usage: tools <server>")
		}
		return r.tools(ctx, args[0])
	case "call":
		if len(args) < 2 {
			return errors.New("usage: call <server> <tool> [json]")
		}
		return r.call(ctx, args[0], args[1], rest(line, 3))
	default:
		return fmt.Errorf("unknown command %q, type 'help' for available commands", cmd)
	}
}

func (r *REPL) help() {
	fmt.Fprintln(r.out, `Available commands:
  servers                      List configured servers
  tools <server>               List the tools of a server
  call <server> <tool> [json]  Call a tool with JSON arguments
  help                         Show this help
  exit                         Leave the shell`)
}

func (r *REPL) session(ctx context.Context, server string) (client.Connector, error) {
	if s, ok := r.client.GetSession(server); ok && s.Connected() {
		return s, nil
	}
	return r.client.CreateSession(ctx, server, true)
}

func (r *REPL) tools(ctx context.Context, server string) error {
	s, err := r.session(ctx, server)
	if err != nil {
		return err
	}
	tools, err := s.ListTools(ctx)
	if err != nil {
		return err
	}
	return r.printer.PrintTools([]cli.ServerTools{{Server: server, Tools: tools}})
}

func (r *REPL) call(ctx context.Context, server, tool, rawArgs string) error {
	args, err := ParseArgs(rawArgs)
	if err != nil {
		return err
	}
	s, err := r.session(ctx, server)
	if err != nil {
		return err
	}
	result, err := s.CallTool(ctx, tool, args)
	if err != nil {
		return err
	}
	return r.printer.PrintToolResult(result, client.ResultText)
}

// rest returns line without its first n words.
func rest(line string, n int) string {
	line = strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(line, " \t")
		if idx < 0 {
			return ""
		}
		line = strings.TrimSpace(line[idx:])
	}
	return line
}

// ParseArgs decodes a JSON object of tool arguments. Empty input means no
// arguments.
func ParseArgs(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}

func (r *REPL) completer() *readline.PrefixCompleter {
	names := r.client.Config().ServerNames()
	servers := make([]readline.PrefixCompleterInterface, len(names))
	for i, name := range names {
		servers[i] = readline.PcItem(name)
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("servers"),
		readline.PcItem("tools", servers...),
		readline.PcItem("call", servers...),
	)
}
