package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Bind the daemon to the process's stdin/stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		warnIfInteractive(cmd.ErrOrStderr())
		return runDaemon("stdio", 0, "")
	},
}

// warnIfInteractive prints a hint when stdin looks like a terminal rather
// than a pipe from an editor, since the framed protocol will otherwise sit
// silently waiting for Content-Length headers that a human won't type.
func warnIfInteractive(w interface{ Write([]byte) (int, error) }) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(w, "ruffls: stdin is a terminal; this binding expects framed JSON-RPC from an editor, not keyboard input")
	}
}
