package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hexaflex/synvm/asm"
	"github.com/hexaflex/synvm/internal/logging"
	"github.com/hexaflex/synvm/loader"
)

func main() {
	config := parseArgs()
	log := logging.New(AppName)

	code := 0
	if err := build(config, log); err != nil {
		log.Error("build failed", zap.String("source", config.Input), zap.Error(err))
		code = 1
	}

	log.Sync()
	os.Exit(code)
}

// build assembles the source and writes the image to the requested output location.
func build(c *Config, log *zap.Logger) error {
	prog, err := asm.AssembleFile(c.Input)
	if err != nil {
		return err
	}

	if c.Symbols {
		printSymbols(os.Stdout, prog)
	}

	w, close, err := makeWriter(c.Output)
	if err != nil {
		return err
	}

	defer close()

	if err := loader.Save(w, prog.Words, c.Gzip); err != nil {
		return err
	}

	log.Info("assembled",
		zap.String("source", c.Input),
		zap.String("out", c.Output),
		zap.Int("words", len(prog.Words)),
		zap.Int("labels", len(prog.Symbols)),
	)
	return nil
}

// printSymbols writes the label table ordered by address.
func printSymbols(w io.Writer, prog *asm.Program) {
	for _, name := range prog.Labels() {
		fmt.Fprintf(w, "%04x %s\n", prog.Symbols[name], name)
	}
}

// makeWriter creates an output writer and a cleanup function for it.
func makeWriter(file string) (io.Writer, func(), error) {
	if file == "" || file == "-" {
		return os.Stdout, func() {}, nil
	}

	dir, _ := filepath.Split(file)
	if dir != "" {
		if err := os.MkdirAll(dir, 0744); err != nil {
			return nil, nil, err
		}
	}

	fd, err := os.Create(file)
	if err != nil {
		return nil, nil, err
	}

	return fd, func() { fd.Close() }, nil
}
