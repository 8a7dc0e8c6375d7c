package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hexaflex/synvm/internal/logging"
)

func main() {
	config := parseArgs()
	log := logging.New(AppName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, config, log, os.Stdout)
	cancel()

	log.Sync()
	os.Exit(code)
}

// run checks all configured images and returns the process exit code.
func run(ctx context.Context, c *Config, log *zap.Logger, w io.Writer) int {
	var input []byte
	if c.Input != "" {
		data, err := os.ReadFile(c.Input)
		if err != nil {
			log.Error("read input", zap.Error(err))
			return 1
		}
		input = data
	}

	results, err := Check(ctx, c.Images, input, c.MaxSteps, c.Parallel)
	if err != nil {
		log.Warn("check aborted", zap.Error(err))
	}

	failed := 0
	for i := range results {
		r := &results[i]
		if !r.OK() {
			failed++
		}

		fields := []zap.Field{
			zap.String("image", r.Image),
			zap.Stringer("id", r.ID),
			zap.Stringer("state", r.State),
			zap.Uint64("steps", r.Steps),
		}

		if r.OK() {
			log.Info("passed", fields...)
		} else {
			log.Error("failed", append(fields, zap.Error(r.Err))...)
		}

		status := "ok"
		if !r.OK() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%-4s %s %s %d\n", status, r.Image, r.State, r.Steps)

		if c.Output && r.Output != "" {
			fmt.Fprintln(w, r.Output)
		}
	}

	if failed > 0 || err != nil {
		return 1
	}
	return 0
}
