package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ruffls",
	Short: "ruffls is an LSP daemon that wraps ruff for Python diagnostics and fixes",
	Long: `ruffls speaks LSP-style framed JSON-RPC over a transport binding and
translates it into ruff invocations, publishing diagnostics and serving
quick-fix code actions back to the client.

With no subcommand it binds stdio, the default an editor expects when it
launches the daemon as a child process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon("stdio", 0, "")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured logging.level")

	rootCmd.AddCommand(stdioCmd)
	rootCmd.AddCommand(socketCmd)
	rootCmd.AddCommand(pipeCmd)
}
