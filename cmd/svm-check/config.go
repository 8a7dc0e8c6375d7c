package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"gitlab.com/efronlicht/enve"
)

// Config defines program configuration.
type Config struct {
	Images   []string // Image files to run.
	Input    string   // Optional file with input lines fed to every image.
	MaxSteps int      // Step limit per image; zero means unlimited.
	Parallel int      // Maximum number of images run at once.
	Output   bool     // Print each image's program output.
}

// parseArgs parses command line arguments as applicable.
// Defaults are taken from the environment and overridden by flags.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	var c Config
	c.Input = enve.StringOr("SVM_INPUT", "")
	c.MaxSteps = enve.IntOr("SVM_MAX_STEPS", 50_000_000)
	c.Parallel = enve.IntOr("SVM_PARALLEL", runtime.NumCPU())

	flag.Usage = func() {
		fmt.Printf("%s [options] <image file>...\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.StringVar(&c.Input, "input", c.Input, "File with input lines fed to every image.")
	flag.IntVar(&c.MaxSteps, "max-steps", c.MaxSteps, "Stop an image after this many steps. 0 means unlimited.")
	flag.IntVar(&c.Parallel, "parallel", c.Parallel, "Maximum number of images run at once.")
	flag.BoolVar(&c.Output, "output", c.Output, "Print the program output of each image.")
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

	if c.Parallel < 1 {
		c.Parallel = 1
	}

	c.Images = flag.Args()
	return &c
}
