package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/def"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is a table-driven state machine engine",
	Long:  `Lattice runs, validates and visualizes finite state machines declared in simple YAML files.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "machine.yaml", "Machine definition file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
}

// setupLogger builds the application logger from the persistent flags and
// installs it as the slog default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	jsonMode, _ := cmd.Flags().GetBool("log-json")

	logger := logging.New(logging.ParseLevel(level), jsonMode)
	slog.SetDefault(logger)
	return logger
}

// loadDefinition reads and parses the definition named by --file, letting a
// positional argument override the flag when it was not set explicitly.
func loadDefinition(cmd *cobra.Command, args []string) (*def.Definition, error) {
	path, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		path = args[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	definition, err := def.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return definition, nil
}
