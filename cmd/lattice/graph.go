package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice/pkg/def"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the transition graph visualization",
	Long:  `Compiles the definition and outputs its transition graph as Graphviz DOT or a Mermaid diagram.`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		definition, err := loadDefinition(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Guards and actions are irrelevant for export, so unbound names
		// are tolerated.
		machine, err := definition.Build(nil, def.WithUnboundAllowed())
		if err != nil {
			fmt.Printf("Error building machine: %v\n", err)
			os.Exit(1)
		}

		switch format {
		case "dot":
			fmt.Print(machine.DOT())
		case "mermaid":
			fmt.Print(machine.Mermaid())
		default:
			fmt.Printf("Unknown format: %s. Supported: dot, mermaid\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "dot", "Output format: 'dot' or 'mermaid'")
}
