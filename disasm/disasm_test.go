package disasm

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/asm"
)

func TestDisassemble(t *testing.T) {
	image := []uint16{
		arch.SET, arch.RegisterBase, 4,
		0x7fff,
		arch.OUT, 'a',
		arch.HALT,
	}

	lines := Disassemble(image)
	if len(lines) != 4 {
		t.Fatalf("line count mismatch: want 4, have %d", len(lines))
	}

	want := []struct {
		addr int
		text string
		data bool
	}{
		{0, "set r0 4", false},
		{3, "data 32767", true},
		{4, "out 'a'", false},
		{6, "halt", false},
	}

	for i, w := range want {
		l := lines[i]
		if l.Address != w.addr {
			t.Fatalf("line %d: address mismatch: want %04x, have %04x", i, w.addr, l.Address)
		}
		if (l.Instr == nil) != w.data {
			t.Fatalf("line %d: data mismatch: want %v", i, w.data)
		}
		if s := l.String(); s != w.text {
			t.Fatalf("line %d: text mismatch: want %q, have %q", i, w.text, s)
		}
	}
}

func TestTruncatedInstruction(t *testing.T) {
	lines := Disassemble([]uint16{arch.NOOP, arch.ADD, arch.RegisterBase})
	if len(lines) != 3 {
		t.Fatalf("line count mismatch: want 3, have %d", len(lines))
	}

	if lines[1].Instr != nil || lines[2].Instr != nil {
		t.Fatalf("truncated instruction must be listed as data")
	}

	if s := lines[2].String(); s != "data 16#8000" {
		t.Fatalf("text mismatch: have %q", s)
	}
}

func TestLiteralDestination(t *testing.T) {
	lines := Disassemble([]uint16{arch.SET, 5, 6})
	if len(lines) != 3 || lines[0].Instr != nil {
		t.Fatalf("SET with a literal destination must be listed as data")
	}
}

func TestRoundTrip(t *testing.T) {
	src := `
:main
	set r1 3
:loop
	out 'x'
	add r1 r1 32767
	jt r1 loop
	out '\n'
	call done
	data 16#ffff 7
:done
	ret
`
	prog, err := asm.Assemble(strings.NewReader(src), "test")
	if err != nil {
		t.Fatal(err)
	}

	var listing bytes.Buffer
	if err := Write(&listing, prog.Words); err != nil {
		t.Fatal(err)
	}

	again, err := asm.Assemble(&listing, "listing")
	if err != nil {
		t.Fatalf("listing does not assemble: %v", err)
	}

	if !reflect.DeepEqual(again.Words, prog.Words) {
		t.Fatalf("round trip mismatch:\nwant %v\nhave %v", prog.Words, again.Words)
	}
}

func TestStrings(t *testing.T) {
	src := `
	out 'h'
	out 'i'
	out '\n'
	out r0
	noop
	out 'o'
	out 'k'
	halt
`
	prog, err := asm.Assemble(strings.NewReader(src), "test")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"hi\n", "ok"}
	if have := Strings(prog.Words); !reflect.DeepEqual(have, want) {
		t.Fatalf("strings mismatch: want %q, have %q", want, have)
	}
}
