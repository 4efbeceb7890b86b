/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/akrol/geodebug/engine"
	"github.com/akrol/geodebug/record"
	"github.com/akrol/geodebug/script"
	"github.com/akrol/geodebug/session"
)

var (
	generateSteps   int
	generateWorkers int
	generateBound   float64
	generateOut     string
	generateRecord  string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [problem_file]",
	Short: "Run the generator headlessly for a fixed number of steps",
	Long: `Run the generator headlessly for a fixed number of steps, print the
final quality, and optionally write the figure as JSON or record every step
into a sqlite database for later inspection.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Failed to read problem file: %v", err)
		}
		prob, err := script.Load(string(src))
		if err != nil {
			log.Fatalf("Failed to load problem: %v", err)
		}

		var repo *record.Repository
		var run *record.Run
		if generateRecord != "" {
			repo, err = record.Open(generateRecord)
			if err != nil {
				log.Fatalf("Failed to open recording database: %v", err)
			}
			defer repo.Close()
			run, err = repo.CreateRun(args[0], generateWorkers, generateBound)
			if err != nil {
				log.Fatalf("Failed to create run: %v", err)
			}
			log.Printf("Recording run %s", run.Id)
		}

		sess := session.Start(engine.New(generateWorkers, prob), prob.Flags, generateBound)
		defer sess.Close()

		for n := 0; n < generateSteps; {
			if !sess.Step() {
				continue
			}
			n = <-sess.Updates()
			if repo != nil {
				fig, _ := sess.Latest()
				if err := repo.AddStep(run.Id, n, engine.Evaluate(prob, fig), fig); err != nil {
					log.Fatalf("Failed to record step %d: %v", n, err)
				}
			}
		}

		fig, n := sess.Latest()
		log.Printf("Generated %d steps, quality %.4f", n, engine.Evaluate(prob, fig))

		if generateOut != "" {
			data, err := json.MarshalIndent(fig, "", "  ")
			if err != nil {
				log.Fatal(err)
			}
			if err := os.WriteFile(generateOut, data, 0644); err != nil {
				log.Fatalf("Failed to write figure: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&generateSteps, "steps", "n", 100, "Number of refinement steps")
	generateCmd.Flags().IntVarP(&generateWorkers, "workers", "w", 512, "Optimizer worker count")
	generateCmd.Flags().Float64VarP(&generateBound, "bound", "b", 0.5, "Maximum adjustment per step")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output file for the final figure (JSON)")
	generateCmd.Flags().StringVarP(&generateRecord, "record", "r", "", "Record every step into this sqlite database")
}
