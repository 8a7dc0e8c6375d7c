package main

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hexaflex/synvm/devices/fffe/cpu"
	"github.com/hexaflex/synvm/devices/fffe/tty"
	"github.com/hexaflex/synvm/loader"
)

// ErrStepLimit is reported for images which did not finish within the step limit.
var ErrStepLimit = errors.New("step limit reached")

// Result holds the outcome of running a single image.
type Result struct {
	Image  string    // Image file.
	ID     uuid.UUID // Identifies this run in log output.
	State  cpu.State // Final cpu state.
	Steps  uint64    // Instructions executed.
	Output string    // Everything the program wrote.
	Err    error     // Load error, fault or ErrStepLimit.
}

// OK returns true if the image halted normally.
func (r *Result) OK() bool {
	return r.Err == nil && r.State == cpu.Halted
}

// Check runs each image on its own cpu, at most parallel at a time.
// Every image receives the same input. Results are returned in the
// order of images. The returned error is only set when ctx ends early.
func Check(ctx context.Context, images []string, input []byte, maxSteps, parallel int) ([]Result, error) {
	results := make([]Result, len(images))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, image := range images {
		i, image := i, image
		g.Go(func() error {
			results[i] = runImage(ctx, image, input, maxSteps)
			return ctx.Err()
		})
	}

	return results, g.Wait()
}

// runImage loads and runs a single image.
func runImage(ctx context.Context, image string, input []byte, maxSteps int) Result {
	r := Result{Image: image, ID: uuid.New()}

	words, err := loader.LoadFile(image)
	if err != nil {
		r.Err = err
		return r
	}

	term := tty.New(bytes.NewReader(input), nil)
	c := cpu.New(nil)
	c.Connect(term)

	if err := c.Startup(words, 0); err != nil {
		r.Err = err
		return r
	}

	defer c.Shutdown()
	r.Err = execute(ctx, c, maxSteps)
	r.State = c.State()
	r.Steps = c.Steps()
	r.Output = term.Output()
	return r
}

// execute steps c until it stops, maxSteps is reached or ctx ends.
func execute(ctx context.Context, c *cpu.CPU, maxSteps int) error {
	for n := 1; ; n++ {
		err := c.Step()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		case maxSteps > 0 && n >= maxSteps:
			return ErrStepLimit
		}

		if n&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}
