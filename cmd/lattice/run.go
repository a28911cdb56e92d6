package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/def"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the machine interactively",
	Long: `Compiles the definition and drives it from the terminal: each line of
input is dispatched as an event name. Guard and action names are unbound in
this mode (guards pass, actions are no-ops); bind them in code via the
registry when embedding.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := setupLogger(cmd)

		definition, err := loadDefinition(cmd, args)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		machine, err := definition.Build(nil, def.WithUnboundAllowed())
		if err != nil {
			fmt.Printf("Error building machine: %v\n", err)
			os.Exit(1)
		}

		interactive := term.IsTerminal(int(os.Stdout.Fd()))
		if interactive {
			tui.PrintBanner()
			if definition.Doc != "" {
				render := tui.NewRenderer()
				if out, err := render(definition.Doc); err == nil {
					fmt.Print(out)
				} else {
					fmt.Println(definition.Doc)
				}
			}
		}

		logger.Debug("Machine compiled", "name", definition.Name, "transitions", len(definition.Transitions))

		reader := bufio.NewReader(os.Stdin)
		for {
			available := machine.Available()
			if len(available) == 0 {
				fmt.Printf("State: %s (terminal)\n", machine.State())
				break
			}
			fmt.Printf("State: %s\n", machine.State())
			fmt.Printf("Events: %s\n", strings.Join(available, ", "))
			fmt.Print("> ")

			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			event := strings.TrimSpace(line)
			if event == "" {
				continue
			}
			if event == "exit" || event == "quit" {
				fmt.Println("Bye!")
				break
			}

			result, err := machine.Dispatch(event)
			if err != nil {
				fmt.Printf("Unknown event: %s\n", event)
				continue
			}
			switch result {
			case lattice.Ok:
				fmt.Printf("-> %s\n", machine.State())
			case lattice.GuardRejected:
				fmt.Println("Guard rejected the transition.")
			case lattice.NoTransition:
				fmt.Printf("No transition for %s in state %s.\n", event, machine.State())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
