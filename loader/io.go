package loader

import (
	"encoding/binary"
	"io"

	"github.com/hexaflex/synvm/arch"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

var endian = binary.LittleEndian

// readWords reads words until the stream is exhausted.
func readWords(r io.Reader) []uint16 {
	var words []uint16
	var buf [2]byte

	for {
		_, err := io.ReadFull(r, buf[:])
		switch err {
		case nil:
		case io.EOF:
			return words
		case io.ErrUnexpectedEOF:
			panic(newError(len(words)*2, nil, "odd trailing byte"))
		default:
			panic(newError(len(words)*2, err, "read failed"))
		}

		if len(words) == arch.MemoryCapacity {
			panic(newError(len(words)*2, nil, "image exceeds %d words", arch.MemoryCapacity))
		}

		words = append(words, endian.Uint16(buf[:]))
	}
}

func writeWords(w io.Writer, words []uint16) {
	check(binary.Write(w, endian, words))
}
