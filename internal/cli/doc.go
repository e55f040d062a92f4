// Package cli holds the output and connectivity helpers shared by the
// mcphub commands.
//
// Commands render results through a Printer, which supports three formats:
//   - table: go-pretty tables with coloured headers, or borderless rows
//     when headers are suppressed, for piping into grep and awk
//   - json: indented JSON
//   - yaml: YAML converted from the JSON form
//
// AggregatorClient reads the name list and combined catalog of a running
// aggregator, and RunWithSpinner shows progress for slow operations such
// as connecting client sessions.
package cli
