/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/akrol/geodebug/engine"
	"github.com/akrol/geodebug/script"
	"github.com/akrol/geodebug/server"
	"github.com/akrol/geodebug/session"
)

var (
	serveAddr     string
	servePassword string
	serveInterval time.Duration
	serveWorkers  int
	serveBound    float64
	serveWidth    float64
	serveHeight   float64
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [problem_file]",
	Short: "Run the generator continuously and stream frames to websocket viewers",
	Long: `Run the generator continuously and stream projected figures to
websocket viewers. POST /join (optionally with the shared password) returns an
access token; /ws?token=... delivers one JSON frame per completed step.`,
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
		auth, err := server.NewAuth(servePassword)
		if err != nil {
			log.Fatalf("Failed to set up auth: %v", err)
		}

		sess := session.Start(engine.New(serveWorkers, prob), prob.Flags, serveBound)
		srv := server.New(sess, auth, serveWidth, serveHeight)
		go srv.Run()

		// Continuous run with back-pressure: a tick whose previous step
		// is still pending is skipped, not queued.
		ticker := time.NewTicker(serveInterval)
		go func() {
			for range ticker.C {
				sess.Step()
			}
		}()

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		go func() {
			<-interrupt
			ticker.Stop()
			sess.Close()
			<-sess.Done()
			srv.Close()
			os.Exit(0)
		}()

		log.Printf("Serving %s on %s", args[0], serveAddr)
		log.Fatal(http.ListenAndServe(serveAddr, srv.Handler()))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "HTTP service address")
	serveCmd.Flags().StringVarP(&servePassword, "password", "p", "", "Shared password required to join")
	serveCmd.Flags().DurationVarP(&serveInterval, "interval", "i", 50*time.Millisecond, "Step interval")
	serveCmd.Flags().IntVarP(&serveWorkers, "workers", "w", 512, "Optimizer worker count")
	serveCmd.Flags().Float64VarP(&serveBound, "bound", "b", 0.5, "Maximum adjustment per step")
	serveCmd.Flags().Float64VarP(&serveWidth, "width", "W", 800, "Projection viewport width")
	serveCmd.Flags().Float64VarP(&serveHeight, "height", "H", 600, "Projection viewport height")
}
