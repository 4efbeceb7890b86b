/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/akrol/geodebug/ui"
)

var (
	debugWidth  int
	debugHeight int
)

// debugCmd represents the debug command
var debugCmd = &cobra.Command{
	Use:   "debug [problem_file]",
	Short: "Open the interactive debugger window",
	Long: `Open the interactive debugger window.

Controls:
  Tab      - Switch field (before a session starts)
  Enter    - Validate the fields and start generating
  Space    - Run/stop continuous stepping
  N        - Single step (while stopped)
  Q        - Quit the session and return to the start panel`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := ""
		if len(args) > 0 {
			file = args[0]
		}
		ebiten.SetWindowSize(debugWidth, debugHeight)
		ebiten.SetWindowTitle("Figure Generation Debugger")
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

		if err := ebiten.RunGame(ui.NewDebugger(file)); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().IntVarP(&debugWidth, "width", "W", 1000, "Initial window width")
	debugCmd.Flags().IntVarP(&debugHeight, "height", "H", 700, "Initial window height")
}
