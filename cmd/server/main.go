// Command server runs the game catalog HTTP API.
//
// Configuration is read from CONFIG_PATH (YAML) and environment variables;
// DATABASE_DSN is required. The server stops gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/meeplelog/meeplelog-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
