package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/loader"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "prog.bin")
	program := []uint16{arch.OUT, 'o', arch.OUT, 'k', arch.NOOP, arch.HALT}

	if err := loader.SaveFile(image, program, true); err != nil {
		t.Fatal(err)
	}

	listing := filepath.Join(dir, "prog.lst")
	if err := run(&Config{Image: image, Output: listing}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(listing)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"out 'o'", "noop", "halt", "; 0005"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("listing lacks %q:\n%s", want, data)
		}
	}

	text := filepath.Join(dir, "prog.txt")
	if err := run(&Config{Image: image, Output: text, Strings: true}); err != nil {
		t.Fatal(err)
	}

	data, err = os.ReadFile(text)
	if err != nil {
		t.Fatal(err)
	}

	if have, want := string(data), "\"ok\"\n"; have != want {
		t.Fatalf("strings mismatch: want %q, have %q", want, have)
	}
}
