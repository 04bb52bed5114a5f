package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pipeName string

var pipeCmd = &cobra.Command{
	Use:   "pipe [name]",
	Short: "Connect over a named pipe (reserved, not yet bound)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := resolvePipeName(pipeName, args)
		if err != nil {
			return err
		}
		return runDaemon("pipe", 0, name)
	},
}

func init() {
	pipeCmd.Flags().StringVar(&pipeName, "pipe", "", "named pipe to connect to")
}

// resolvePipeName prefers a positional name argument over the --pipe flag.
func resolvePipeName(flagName string, args []string) (string, error) {
	name := flagName
	if len(args) == 1 {
		name = args[0]
	}
	if name == "" {
		return "", fmt.Errorf("pipe: a name is required, via positional argument or --pipe")
	}
	return name, nil
}
