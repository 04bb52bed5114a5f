package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var socketPort int

var socketCmd = &cobra.Command{
	Use:   "socket [port]",
	Short: "Dial a loopback TCP listener owned by the editor",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := resolveSocketPort(socketPort, args)
		if err != nil {
			return err
		}
		return runDaemon("socket", port, "")
	},
}

func init() {
	socketCmd.Flags().IntVar(&socketPort, "port", 0, "TCP port to dial on 127.0.0.1")
}

// resolveSocketPort prefers a positional port argument over the --port
// flag, matching the precedence a user typing `ruffls socket 4512` expects.
func resolveSocketPort(flagPort int, args []string) (int, error) {
	port := flagPort
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("socket: invalid port %q: %w", args[0], err)
		}
		port = p
	}
	if port <= 0 {
		return 0, fmt.Errorf("socket: a port is required, via positional argument or --port")
	}
	return port, nil
}
