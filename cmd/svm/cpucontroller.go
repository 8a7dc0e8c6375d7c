package main

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/hexaflex/synvm/devices"
	"github.com/hexaflex/synvm/devices/fffe/cpu"
)

// CPUController controls the execution of a CPU.
type CPUController struct {
	cpu     *cpu.CPU
	start   time.Time
	elapsed time.Duration
	stop    atomic.Bool
}

// ErrStopped is returned by Run when execution was stopped through Stop.
var ErrStopped = errors.New("execution stopped")

// NewCPUController creates a new CPU controller.
func NewCPUController(trace cpu.TraceFunc, devices ...devices.Device) *CPUController {
	cpu := cpu.New(trace)

	for _, dev := range devices {
		cpu.Connect(dev)
	}

	return &CPUController{
		cpu: cpu,
	}
}

// CPU returns the controlled cpu.
func (c *CPUController) CPU() *cpu.CPU {
	return c.cpu
}

// Frequency returns the average clock frequency of the last run in herz.
func (c *CPUController) Frequency() float64 {
	if c.elapsed <= 0 {
		return 0
	}
	return float64(c.cpu.Steps()) / c.elapsed.Seconds()
}

// Elapsed returns the duration of the last run.
func (c *CPUController) Elapsed() time.Duration {
	return c.elapsed
}

// Run executes the program until it halts, faults or Stop is called.
// Returns nil on a regular halt and ErrStopped when stopped.
func (c *CPUController) Run() error {
	c.start = time.Now()
	defer func() { c.elapsed = time.Since(c.start) }()

	for n := 1; ; n++ {
		err := c.cpu.Step()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		if n&0x3ff == 0 && c.stop.Load() {
			return ErrStopped
		}
	}
}

// Stop asks a running program to stop. Run returns within a few
// instructions unless the program is blocked on input.
func (c *CPUController) Stop() {
	c.stop.Store(true)
}

// Startup loads the given program and initializes the cpu and connected peripherals.
func (c *CPUController) Startup(program []uint16, capacity int) error {
	return c.cpu.Startup(program, capacity)
}

// Shutdown disposes of CPU and peripheral resources.
func (c *CPUController) Shutdown() error {
	return c.cpu.Shutdown()
}
