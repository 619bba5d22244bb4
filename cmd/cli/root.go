package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/clems4ever/wiki-query/internal/cli"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const appName = "Wiki Query CLI"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wiki-query",
		Short:         appName + " - Transform user requests into Wikipedia queries via a free neural model and fetch summaries.",
		Version:       resolveVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetVersionTemplate(appName + " v{{.Version}}\n")

	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file (default: user config dir)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newAskCmd())
	return rootCmd
}

// exitCode maps pipeline errors to the process exit status.
func exitCode(err error) int {
	if err == nil || errors.Is(err, cli.ErrSelectionCancelled) {
		return 0
	}
	return 1
}

func main() {
	err := newRootCmd().Execute()
	switch {
	case errors.Is(err, cli.ErrSelectionCancelled):
		color.Yellow("Selection cancelled.")
	case err != nil:
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprintf("Error: %v", err))
	}
	os.Exit(exitCode(err))
}
