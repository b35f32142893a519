package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hanafiyah/internal/app/bootstrap"
)

// Telegram bot entrypoint. Long-polls the Bot API until SIGINT/SIGTERM.
func main() {
	log.Println("hanafiyah bot starting")
	app, err := bootstrap.BuildBot()
	if err != nil {
		log.Fatalf("bootstrap bot failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("bot shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("hanafiyah bot stopped with error: %v", err)
	}
}
