package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mark3labs/mcp-go/mcp"
	"sigs.k8s.io/yaml"
)

// OutputFormat represents the supported output formats for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ValidateOutputFormat validates that the given format string is a supported output format.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q (valid: table, json, yaml)", format)
	}
}

// Printer writes command results in the selected format.
type Printer struct {
	Out       io.Writer
	Format    OutputFormat
	NoHeaders bool
}

// NewPrinter creates a printer writing to stdout.
func NewPrinter(format OutputFormat, noHeaders bool) *Printer {
	return &Printer{Out: os.Stdout, Format: format, NoHeaders: noHeaders}
}

func (p *Printer) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// PrintJSONBytes prints an already encoded JSON document. Table output falls
// back to JSON, since documents such as the combined catalog have no tabular
// shape.
func (p *Printer) PrintJSONBytes(data []byte) error {
	switch p.Format {
	case OutputFormatYAML:
		out, err := yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("failed to convert to YAML: %w", err)
		}
		_, err = p.out().Write(out)
		return err
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		buf.WriteByte('\n')
		_, err := p.out().Write(buf.Bytes())
		return err
	}
}

// PrintValue prints v as JSON or YAML.
func (p *Printer) PrintValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return p.PrintJSONBytes(data)
}

// PrintNames prints a list of plugin or server names.
func (p *Printer) PrintNames(header string, names []string) error {
	if p.Format != OutputFormatTable {
		return p.PrintValue(names)
	}
	if len(names) == 0 {
		p.printEmpty("No " + strings.ToLower(header) + "s found")
		return nil
	}

	t := p.newTable(header)
	for _, name := range names {
		t.AppendRow(table.Row{name})
	}
	t.Render()
	return nil
}

// ServerTools is the tool list of one server.
type ServerTools struct {
	Server string     `json:"server"`
	Tools  []mcp.Tool `json:"tools"`
}

// PrintTools prints the tools of one or more servers.
func (p *Printer) PrintTools(lists []ServerTools) error {
	if p.Format != OutputFormatTable {
		return p.PrintValue(lists)
	}

	total := 0
	t := p.newTable("Server", "Tool", "Description")
	for _, list := range lists {
		for _, tool := range list.Tools {
			t.AppendRow(table.Row{list.Server, tool.Name, truncate(tool.Description, 60)})
			total++
		}
	}
	if total == 0 {
		p.printEmpty("No tools found")
		return nil
	}
	t.Render()
	return nil
}

// PrintToolResult prints the result of a tool call. Error results are
// returned as errors.
func (p *Printer) PrintToolResult(result *mcp.CallToolResult, render func(*mcp.CallToolResult) string) error {
	if result.IsError {
		return fmt.Errorf("%s", render(result))
	}
	if p.Format != OutputFormatTable && result.StructuredContent != nil {
		return p.PrintValue(result.StructuredContent)
	}
	fmt.Fprintln(p.out(), render(result))
	return nil
}

// newTable creates a table with the standard style. Without headers it
// renders borderless rows.
func (p *Printer) newTable(headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out())

	if p.NoHeaders {
		style := table.StyleLight
		style.Options = table.OptionsNoBordersAndSeparators
		style.Box.PaddingLeft = ""
		style.Box.PaddingRight = "   "
		t.SetStyle(style)
		return t
	}

	style := table.StyleRounded
	style.Color.Header = text.Colors{text.FgHiCyan}
	t.SetStyle(style)
	row := make(table.Row, 0, len(headers))
	for _, h := range headers {
		row = append(row, strings.ToUpper(h))
	}
	t.AppendHeader(row)
	return t
}

func (p *Printer) printEmpty(message string) {
	fmt.Fprintf(p.out(), "%s\n", text.FgYellow.Sprint(message))
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return fmt.Sprintf("⚠ %s", msg)
}
