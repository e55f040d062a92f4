package cmd

import (
	"errors"
	"fmt"
	"os"

	"mcphub/internal/client"
	"mcphub/internal/config"
	"mcphub/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfigError indicates the configuration could not be loaded or is invalid.
	ExitCodeConfigError = 2
)

var (
	configPath string
	debug      bool
	logFormat  string
)

// rootCmd represents the base command for the mcphub application.
var rootCmd = &cobra.Command{
	Use:   "mcphub",
	Short: "Aggregate tool servers behind one HTTP endpoint",
	Long: `mcphub serves embedded plugins and external tool servers behind a single
HTTP entry point, with one combined OpenAPI catalog at /openapi.json.

External servers are listed in the mcpServers mapping of the configuration
file. Entries with a command are spawned and supervised; entries with only a
url are proxied. The hub command re-exposes every configured server's tools
as one MCP server.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	rootCmd.Version = v
	client.ClientVersion = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code describing the
// outcome.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcphub version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var verrs config.ValidationErrors
	if config.IsConfigurationError(err) || client.IsConfigError(err) || errors.As(err, &verrs) {
		return ExitCodeConfigError
	}
	return ExitCodeError
}

// initLogging installs a quiet logger for the client commands; serve and
// hub reconfigure it when the application boots.
func initLogging(cmd *cobra.Command, args []string) error {
	if logFormat != logging.FormatText && logFormat != logging.FormatJSON {
		return fmt.Errorf("unsupported log format %q (valid: %s, %s)", logFormat, logging.FormatText, logging.FormatJSON)
	}
	level := logging.LevelWarn
	if debug {
		level = logging.LevelDebug
	}
	logging.Init(logFormat, level, os.Stderr)
	return nil
}

// loadConfig resolves --config the way every command does.
func loadConfig() (config.Config, error) {
	cfg, _, err := config.Resolve(configPath)
	return cfg, err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format (text, json)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHubCmd())
	rootCmd.AddCommand(newPluginsCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newPluginCmd())
}
