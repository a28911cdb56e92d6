package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the definition for consistency",
	Long:  `Parses the definition and reports unknown states, unknown events, duplicate edges and a missing initial state.`,
	Run: func(cmd *cobra.Command, args []string) {
		definition, err := loadDefinition(cmd, args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Definition is valid! ✅ (%d transitions)\n", len(definition.Transitions))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
