package asm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func assemble(t *testing.T, src string) *Program {
	t.Helper()

	prog, err := Assemble(strings.NewReader(src), "test.asm")
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestAssemble(t *testing.T) {
	prog := assemble(t, `
		; add and print
		add r0, r1, 4
		out r0
		halt
	`)

	want := []uint16{9, 32768, 32769, 4, 19, 32768, 0}
	if !reflect.DeepEqual(prog.Words, want) {
		t.Fatalf("image mismatch:\nhave: %v\nwant: %v", prog.Words, want)
	}
}

func TestLabels(t *testing.T) {
	prog := assemble(t, `
	:main
		call print   ; forward reference
		halt
	:print
		out 'A'
		out '\n'
		ret
	`)

	want := []uint16{17, 3, 0, 19, 'A', 19, '\n', 18}
	if !reflect.DeepEqual(prog.Words, want) {
		t.Fatalf("image mismatch:\nhave: %v\nwant: %v", prog.Words, want)
	}

	if prog.Symbols["main"] != 0 || prog.Symbols["print"] != 3 {
		t.Fatalf("unexpected symbols %v", prog.Symbols)
	}

	if labels := prog.Labels(); !reflect.DeepEqual(labels, []string{"main", "print"}) {
		t.Fatalf("unexpected label order %v", labels)
	}
}

func TestNumbers(t *testing.T) {
	prog := assemble(t, `set r7 16#7fff
		set r1, 2#1010
		set r2 1_000`)

	want := []uint16{1, 32775, 0x7fff, 1, 32769, 10, 1, 32770, 1000}
	if !reflect.DeepEqual(prog.Words, want) {
		t.Fatalf("image mismatch:\nhave: %v\nwant: %v", prog.Words, want)
	}
}

func TestData(t *testing.T) {
	prog := assemble(t, `
		jmp end
	:msg
		data "hi;" 'x' 16#ffff msg
	:end
		halt
	`)

	want := []uint16{6, 8, 'h', 'i', ';', 'x', 0xffff, 2, 0}
	if !reflect.DeepEqual(prog.Words, want) {
		t.Fatalf("image mismatch:\nhave: %v\nwant: %v", prog.Words, want)
	}
}

func TestErrors(t *testing.T) {
	for _, tt := range []struct {
		src  string
		line int
	}{
		{"bogus r0", 1},
		{"halt\nout", 2},
		{"set 1 2", 1},
		{"jmp nowhere", 1},
		{"out 32768", 1},
		{"out -1", 1},
		{":a\n:a\nhalt", 2},
		{":r0 halt", 1},
		{"out 'ab'", 1},
		{"out \"x", 1},
		{"halt :late", 1},
		{"halt @", 1},
		{"data", 1},
		{"halt\ndata \"ok\\U0001F600\"", 2},
		{"data \"\\u8000\"", 1},
		{"out '\\u8000'", 1},
	} {
		_, err := Assemble(strings.NewReader(tt.src), "bad.asm")

		var ae *Error
		if !errors.As(err, &ae) {
			t.Fatalf("%q: expected *Error; have %v", tt.src, err)
		}

		if ae.Pos.Line != tt.line || ae.Pos.File != "bad.asm" {
			t.Fatalf("%q: unexpected position %v", tt.src, ae.Pos)
		}
	}
}
