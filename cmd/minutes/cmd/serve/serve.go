package serve

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"minutes/internal/app"
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Listens until SIGINT or SIGTERM, then drains in-flight requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		application, cleanup, err := app.InitializeApplication(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize application: %v", err)
		}
		defer cleanup()

		if err := application.Server.Start(); err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return application.Server.Shutdown(shutdownCtx)
	},
}
