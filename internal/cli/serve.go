package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vetgate/internal/config"
	"vetgate/internal/github"
	"vetgate/internal/logging"
	"vetgate/internal/pipeline"
	"vetgate/internal/service"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the review pipeline as an HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = configExitCode(err)
			return nil
		}
		p, err := pipeline.New(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = configExitCode(err)
			return nil
		}

		// PR fetching is optional; without a token the service still
		// reviews inline diffs.
		var fetch service.DiffFetcher
		if client, err := github.NewClient(); err == nil {
			fetch = client
		}

		srv := &http.Server{
			Addr:              flagListen,
			Handler:           service.New(p.Run, fetch).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		log := logging.New("serve")
		log.Info("listening", "addr", flagListen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", ":8080", "Listen address")
	addReviewFlags(serveCmd)
}
