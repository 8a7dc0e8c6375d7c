// Package loader reads and writes program images.
//
// An image is a sequence of little-endian 16-bit words which becomes the
// initial memory contents of a CPU, starting at address 0. Images may
// optionally be gzip compressed; compression is detected automatically.
package loader

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/pkg/errors"
)

// gzip stream magic. Read as a little-endian word it is 0x8b1f, which is
// never a valid opcode, so it can not be mistaken for a plain image.
var gzipMagic = [2]byte{0x1f, 0x8b}

// Error defines a malformed image.
type Error struct {
	Offset int   // Byte offset at which the problem was found.
	Err    error // Optional underlying error.
	Msg    string
}

// newError creates a new, formatted error message for the given byte offset.
func newError(offset int, err error, f string, argv ...interface{}) *Error {
	return &Error{
		Offset: offset,
		Err:    err,
		Msg:    fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("loader: offset %d: %s", e.Offset, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads an image from the given stream.
func Load(r io.Reader) (words []uint16, err error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, newError(0, err, "invalid compressed image")
		}
		defer gz.Close()
		src = gz
	}

	defer recoverOnPanic(&err)
	words = readWords(src)
	return
}

// LoadFile reads an image from the given file.
func LoadFile(file string) ([]uint16, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer fd.Close()

	words, err := Load(fd)
	return words, errors.Wrapf(err, "%s", file)
}

// Save writes the given words as an image to w, optionally gzip compressed.
func Save(w io.Writer, words []uint16, compress bool) (err error) {
	defer recoverOnPanic(&err)

	if !compress {
		bw := bufio.NewWriter(w)
		writeWords(bw, words)
		check(bw.Flush())
		return
	}

	gz := gzip.NewWriter(w)
	writeWords(gz, words)
	check(gz.Close())
	return
}

// SaveFile writes the given words as an image to the given file.
func SaveFile(file string, words []uint16, compress bool) error {
	fd, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := Save(fd, words, compress); err != nil {
		fd.Close()
		return errors.Wrapf(err, "%s", file)
	}

	return fd.Close()
}

func recoverOnPanic(err *error) {
	x := recover()
	if x == nil {
		return
	}

	switch tx := x.(type) {
	case runtime.Error:
		panic(tx)
	case *Error:
		*err = tx
	case error:
		*err = errors.Wrapf(tx, "loader")
	default:
		*err = fmt.Errorf("loader: %v", tx)
	}
}
