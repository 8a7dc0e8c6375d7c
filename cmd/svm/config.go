package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gitlab.com/efronlicht/enve"
)

// Config defines program configuration.
type Config struct {
	Image   string        // Path to the image file to load.
	Input   string        // Optional script whose lines are fed before standard input.
	Memory  int           // Memory capacity in words; zero selects the full address space.
	Timeout time.Duration // Abort execution after this long; zero disables it.
	Trace   bool          // Print instruction trace data?
}

// parseArgs parses command line arguments as applicable.
// Defaults are taken from the environment and overridden by flags.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Trace = enve.BoolOr("SVM_TRACE", false)
	c.Input = enve.StringOr("SVM_INPUT", "")
	c.Memory = enve.IntOr("SVM_MEMORY", 0)
	c.Timeout = enve.DurationOr("SVM_TIMEOUT", 0)

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.BoolVar(&c.Trace, "trace", c.Trace, "Print instruction trace data to stderr.")
	flag.StringVar(&c.Input, "input", c.Input, "File with input lines to feed the program before standard input.")
	flag.IntVar(&c.Memory, "memory", c.Memory, "Memory capacity in words. 0 selects the full 32768 word address space.")
	flag.DurationVar(&c.Timeout, "timeout", c.Timeout, "Abort execution after the given duration. 0 disables the timeout.")

	version := flag.Bool("version", false, "Display version information.")
	flag.Parse()

	if *version {
		fmt.Println(Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	c.Image = flag.Arg(0)
	return &c
}
