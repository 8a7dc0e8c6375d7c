package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/devices/fffe/cpu"
	"github.com/hexaflex/synvm/devices/fffe/tty"
	"github.com/hexaflex/synvm/loader"
)

// Process exit codes.
const (
	ExitHalt    = 0
	ExitFault   = 1
	ExitTimeout = 2
)

// App defines application context.
type App struct {
	config *Config        // Application configuration.
	log    *zap.Logger    // Structured logger.
	cpu    *CPUController // VM with program to be run.
	tty    *tty.Device    // Terminal peripheral serving OUT and IN.
	stdin  io.Reader      // Program input.
	stdout *lockedWriter  // Program output.
	trace  *lockedWriter  // Instruction trace output.
}

// NewApp creates a new application instance using the given configuration.
// The program talks to the process's standard streams.
func NewApp(config *Config, log *zap.Logger) *App {
	return newApp(config, log, os.Stdin, os.Stdout, os.Stderr)
}

func newApp(config *Config, log *zap.Logger, stdin io.Reader, stdout, stderr io.Writer) *App {
	var a App
	a.config = config
	a.log = log
	a.stdin = stdin
	a.stdout = newLockedWriter(stdout, 4096)
	a.tty = tty.New(stdin, a.stdout)

	var trace cpu.TraceFunc
	if config.Trace {
		a.trace = newLockedWriter(stderr, 64*1024)
		trace = a.printTrace
	}

	a.cpu = NewCPUController(trace, a.tty)
	return &a
}

// Run loads and runs the configured program. It does not return until
// the program halts or faults, the timeout expires or ctx is cancelled.
// The result is the process exit code.
func (a *App) Run(ctx context.Context) int {
	a.log.Info(Version())

	if err := a.loadProgram(); err != nil {
		a.log.Error("load failed", zap.String("image", a.config.Image), zap.Error(err))
		return ExitFault
	}

	done := make(chan error, 1)
	go func() {
		done <- a.cpu.Run()
	}()

	var timeout <-chan time.Time
	if a.config.Timeout > 0 {
		timer := time.NewTimer(a.config.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case err := <-done:
		a.flush()
		if serr := a.cpu.Shutdown(); serr != nil {
			a.log.Warn("shutdown", zap.Error(serr))
		}
		return a.report(err)

	case <-timeout:
		a.cpu.Stop()
		a.flush()
		a.log.Error("timeout", zap.Duration("after", a.config.Timeout))
		return ExitTimeout

	case <-ctx.Done():
		a.cpu.Stop()
		a.flush()
		a.log.Warn("interrupted", zap.Error(ctx.Err()))
		return ExitFault
	}
}

// loadProgram loads the image from disk and starts the cpu with it.
func (a *App) loadProgram() error {
	a.log.Debug("loading", zap.String("image", a.config.Image))

	words, err := loader.LoadFile(a.config.Image)
	if err != nil {
		return err
	}

	if a.config.Input != "" {
		fd, err := os.Open(a.config.Input)
		if err != nil {
			return errors.Wrap(err, "input script")
		}

		err = a.tty.FeedScript(fd)
		fd.Close()
		if err != nil {
			return errors.Wrapf(err, "input script %s", a.config.Input)
		}

		a.tty.SetEcho(true)
	}

	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.log.Debug("reading input from terminal")
	}

	a.log.Info("loaded", zap.String("image", a.config.Image), zap.Int("words", len(words)))
	return a.cpu.Startup(words, a.config.Memory)
}

// report logs the outcome of a run and returns the matching exit code.
func (a *App) report(err error) int {
	c := a.cpu.CPU()
	fields := []zap.Field{
		zap.Uint64("steps", c.Steps()),
		zap.Duration("elapsed", a.cpu.Elapsed()),
		zap.String("frequency", prettyFrequency(a.cpu.Frequency())),
	}

	if err == nil {
		a.log.Info("halted", fields...)
		return ExitHalt
	}

	var e *cpu.Error
	if errors.As(err, &e) {
		fields = append(fields,
			zap.String("pc", fmt.Sprintf("%04x", e.IP)),
			zap.String("fault", e.Fault.Error()),
		)
		if e.Opcode > -1 {
			fields = append(fields, zap.Stringer("instruction", &e.Instruction))
		}
	}

	a.log.Error("fault", append(fields, zap.Error(err))...)
	return ExitFault
}

// flush writes out buffered program and trace output.
func (a *App) flush() {
	if err := a.stdout.Flush(); err != nil {
		a.log.Warn("flush output", zap.Error(err))
	}
	if a.trace != nil {
		a.trace.Flush()
	}
}

// printTrace prints instruction trace data. Register operands are shown
// with their contents after execution.
func (a *App) printTrace(i *cpu.Instruction, next int) {
	var sb strings.Builder
	sb.Grow(80)

	name, _ := arch.Name(i.Opcode)
	regs := a.cpu.CPU().Registers()

	for j := 0; j < i.Argc; j++ {
		argv := i.Args[j]

		if argv.Kind == arch.Register {
			fmt.Fprintf(&sb, "%s=%04x", arch.RegisterName(argv.Value), regs.Read(argv.Value))
		} else {
			fmt.Fprintf(&sb, "%04x", argv.Value)
		}

		if j < i.Argc-1 {
			sb.WriteString(", ")
		}
	}

	pad(&sb, 40)
	fmt.Fprintf(a.trace, "%04x %5s  %s -> %04x\n", i.IP, name, sb.String(), next)
}

// pad padds sb with spaces until it reaches the given size.
var pad = func() func(*strings.Builder, int) {
	set := strings.Repeat(" ", 80)
	return func(sb *strings.Builder, size int) {
		if sb.Len() >= size {
			return
		}
		if size > len(set) {
			size = len(set)
		}
		sb.WriteString(set[:size-sb.Len()])
	}
}()

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f GHz", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
