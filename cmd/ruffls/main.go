// Command ruffls is a Language Server Protocol daemon that backs Python
// diagnostics and quick fixes with ruff. It speaks LSP-style framed
// JSON-RPC over stdio or a loopback socket. The pipe subcommand parses its
// name, but binding a named pipe returns an error.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
