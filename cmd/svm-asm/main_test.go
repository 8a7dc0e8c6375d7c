package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/asm"
	"github.com/hexaflex/synvm/loader"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.asm")
	out := filepath.Join(dir, "bin", "hello.bin")

	err := os.WriteFile(src, []byte(":main\n\tout 'h'\n\thalt\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	for _, compress := range []bool{false, true} {
		err = build(&Config{Input: src, Output: out, Gzip: compress}, zap.NewNop())
		if err != nil {
			t.Fatal(err)
		}

		words, err := loader.LoadFile(out)
		if err != nil {
			t.Fatal(err)
		}

		want := []uint16{arch.OUT, 'h', arch.HALT}
		if !reflect.DeepEqual(words, want) {
			t.Fatalf("gzip=%v: image mismatch: want %v, have %v", compress, want, words)
		}
	}
}

func TestBuildError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.asm")

	if err := os.WriteFile(src, []byte("halt\nbogus\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := build(&Config{Input: src, Output: filepath.Join(dir, "bad.bin")}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "bad.asm:2:") {
		t.Fatalf("expected positioned error; have %v", err)
	}
}

func TestPrintSymbols(t *testing.T) {
	prog, err := asm.Assemble(strings.NewReader(":b\nnoop\n:a\nhalt\n"), "test")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printSymbols(&buf, prog)

	if have, want := buf.String(), "0000 b\n0001 a\n"; have != want {
		t.Fatalf("symbol table mismatch: want %q, have %q", want, have)
	}
}
