package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hexaflex/synvm/internal/logging"
)

func main() {
	config := parseArgs()
	log := logging.New(AppName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := NewApp(config, log).Run(ctx)
	cancel()

	log.Sync()
	os.Exit(code)
}
