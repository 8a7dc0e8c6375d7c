package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/hexaflex/synvm/arch"
)

func TestLoad(t *testing.T) {
	data := []byte{9, 0, 0, 0x80, 1, 0x80, 4, 0, 19, 0, 0, 0x80, 0, 0}

	have, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	want := []uint16{9, 32768, 32769, 4, 19, 32768, 0}
	if !reflect.DeepEqual(have, want) {
		t.Fatalf("image mismatch:\nhave: %v\nwant: %v", have, want)
	}
}

func TestLoadEmpty(t *testing.T) {
	have, err := Load(bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}

	if len(have) != 0 {
		t.Fatalf("expected no words; have %v", have)
	}
}

func TestLoadOddLength(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{0, 0, 21}))

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *Error; have %v", err)
	}

	if le.Offset != 2 {
		t.Fatalf("expected offset 2; have %d", le.Offset)
	}
}

func TestLoadTooLarge(t *testing.T) {
	data := make([]byte, (arch.MemoryCapacity+1)*2)

	_, err := Load(bytes.NewReader(data))

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected *Error; have %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	words := []uint16{21, 19, 'a', 0, 0x7fff, 0x8007}

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := Save(&buf, words, compress); err != nil {
			t.Fatal(err)
		}

		if !compress && buf.Len() != len(words)*2 {
			t.Fatalf("expected %d bytes; have %d", len(words)*2, buf.Len())
		}

		have, err := Load(&buf)
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(have, words) {
			t.Fatalf("compress=%v mismatch:\nhave: %v\nwant: %v", compress, have, words)
		}
	}
}

func TestLoadCorruptGzip(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{0x1f, 0x8b, 0, 0}))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prog.bin")
	words := []uint16{19, 'x', 0}

	if err := SaveFile(file, words, false); err != nil {
		t.Fatal(err)
	}

	have, err := LoadFile(file)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(have, words) {
		t.Fatalf("mismatch:\nhave: %v\nwant: %v", have, words)
	}

	if err := os.WriteFile(file, []byte{1}, 0644); err != nil {
		t.Fatal(err)
	}

	_, err = LoadFile(file)

	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("expected wrapped *Error; have %v", err)
	}
}
