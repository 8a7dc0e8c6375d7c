package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/hexaflex/synvm/disasm"
	"github.com/hexaflex/synvm/internal/logging"
	"github.com/hexaflex/synvm/loader"
)

func main() {
	config := parseArgs()
	log := logging.New(AppName)

	code := 0
	if err := run(config); err != nil {
		log.Error("disassembly failed", zap.String("image", config.Image), zap.Error(err))
		code = 1
	}

	log.Sync()
	os.Exit(code)
}

// run loads the image and writes the requested listing.
func run(c *Config) error {
	words, err := loader.LoadFile(c.Image)
	if err != nil {
		return err
	}

	w, close, err := makeWriter(c.Output)
	if err != nil {
		return err
	}

	defer close()

	if c.Strings {
		return writeStrings(w, words)
	}
	return disasm.Write(w, words)
}

// writeStrings writes each text run on its own line, quoted.
func writeStrings(w io.Writer, words []uint16) error {
	bw := bufio.NewWriter(w)
	for _, s := range disasm.Strings(words) {
		fmt.Fprintf(bw, "%q\n", s)
	}
	return bw.Flush()
}

// makeWriter creates an output writer and a cleanup function for it.
func makeWriter(file string) (io.Writer, func(), error) {
	if file == "" || file == "-" {
		return os.Stdout, func() {}, nil
	}

	fd, err := os.Create(file)
	if err != nil {
		return nil, nil, err
	}

	return fd, func() { fd.Close() }, nil
}
