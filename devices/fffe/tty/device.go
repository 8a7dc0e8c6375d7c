// Package tty implements a line buffered character terminal.
package tty

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/devices"
)

// flusher is implemented by buffered output streams.
type flusher interface {
	Flush() error
}

// Device defines all internal doodads for the terminal.
type Device struct {
	in     *bufio.Reader // Input source; nil means no input.
	out    io.Writer     // Optional output stream.
	queue  []string      // Lines fed ahead of the input source.
	line   []rune        // Remainder of the line currently being consumed.
	output []uint16      // Every character written since startup.
	eof    bool          // Input source is exhausted.
	echo   bool          // Copy fed lines to the output stream?
}

var _ devices.Console = &Device{}

// New creates a new terminal reading from in and streaming to out.
// Either may be nil.
func New(in io.Reader, out io.Writer) *Device {
	d := &Device{out: out}
	if in != nil {
		d.in = bufio.NewReader(in)
	}
	return d
}

// ID returns the device id.
func (d *Device) ID() devices.ID {
	return devices.NewID(devices.Builtin, devices.SerialTTY)
}

// Startup clears the output accumulator and any partially consumed line.
// Fed lines are kept.
func (d *Device) Startup() error {
	d.output = d.output[:0]
	d.line = nil
	return nil
}

// Shutdown flushes the output stream.
func (d *Device) Shutdown() error {
	return d.flush()
}

// SetEcho determines if fed lines are copied to the output stream as they
// are consumed. The accumulated output never includes them.
func (d *Device) SetEcho(v bool) {
	d.echo = v
}

// Feed queues a line of input ahead of the input source.
// A trailing newline is added when missing.
func (d *Device) Feed(line string) {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	d.queue = append(d.queue, line)
}

// FeedScript queues every line read from r.
func (d *Device) FeedScript(r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			d.Feed(normalize(line))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "tty: read script")
		}
	}
}

// Output returns everything written since startup as text.
// Surrogate code points (d800-dfff) come out as U+FFFD; use Chars
// for the exact values.
func (d *Device) Output() string {
	var sb strings.Builder
	sb.Grow(len(d.output))
	for _, c := range d.output {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}

// Chars returns the character codes written since startup.
func (d *Device) Chars() []uint16 {
	return d.output
}

// WriteChar appends the character with the given code to the output.
// The stream receives its UTF-8 encoding, which replaces surrogates
// with U+FFFD.
func (d *Device) WriteChar(c int) error {
	r := rune(c)
	d.output = append(d.output, uint16(c))

	if d.out == nil {
		return nil
	}

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	_, err := d.out.Write(buf[:n])
	return errors.Wrap(err, "tty: write")
}

// ReadChar returns the code point of the next input character. A new
// line is only pulled from the input once the previous one is fully
// consumed. Returns io.EOF when no more input is available.
//
// Characters which do not fit a word are rejected.
func (d *Device) ReadChar() (int, error) {
	for len(d.line) == 0 {
		if err := d.nextLine(); err != nil {
			return 0, err
		}
	}

	c := d.line[0]
	d.line = d.line[1:]

	if c > arch.WordMax {
		return 0, errors.Errorf("tty: character %U does not fit a word", c)
	}
	return int(c), nil
}

// nextLine loads the next complete line into d.line.
func (d *Device) nextLine() error {
	if len(d.queue) > 0 {
		line := d.queue[0]
		d.queue = d.queue[1:]
		d.line = []rune(line)

		if d.echo && d.out != nil {
			if _, err := io.WriteString(d.out, line); err != nil {
				return errors.Wrap(err, "tty: write")
			}
		}
		return nil
	}

	if d.in == nil || d.eof {
		return io.EOF
	}

	// Make sure any prompt is visible before blocking on input.
	if err := d.flush(); err != nil {
		return err
	}

	line, err := d.in.ReadString('\n')
	switch {
	case err == io.EOF:
		d.eof = true
		if len(line) == 0 {
			return io.EOF
		}
	case err != nil:
		return errors.Wrap(err, "tty: read")
	}

	d.line = []rune(normalize(line))
	return nil
}

func (d *Device) flush() error {
	if f, ok := d.out.(flusher); ok {
		return errors.Wrap(f.Flush(), "tty: flush")
	}
	return nil
}

// normalize turns a CRLF line ending into LF.
func normalize(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2] + "\n"
	}
	return line
}
