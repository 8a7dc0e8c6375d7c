// Package disasm implements a static disassembler for program images.
//
// The listing is a linear sweep: words which do not decode to a valid
// instruction are emitted as data and decoding resumes at the next word.
// Since programs may modify themselves, the listing only reflects the
// image as loaded. Its output can be fed back to the assembler.
package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/devices/fffe/cpu"
)

// Line defines one entry of a listing.
type Line struct {
	Address int              // Address of the first word.
	Words   []uint16         // Words covered by this line.
	Instr   *cpu.Instruction // Decoded instruction; nil for data.
}

// Disassemble decodes the given image.
func Disassemble(image []uint16) []Line {
	mem := cpu.Memory(image)
	lines := make([]Line, 0, len(image)/2)

	for addr := 0; addr < len(image); {
		var instr cpu.Instruction
		if err := instr.Decode(mem, addr); err != nil {
			lines = append(lines, Line{Address: addr, Words: image[addr : addr+1]})
			addr++
			continue
		}

		lines = append(lines, Line{Address: addr, Words: image[addr:instr.Next], Instr: &instr})
		addr = instr.Next
	}

	return lines
}

// String returns the line in assembler syntax.
func (l *Line) String() string {
	if l.Instr == nil {
		return "data " + formatRaw(int(l.Words[0]))
	}

	var sb strings.Builder
	name, _ := arch.Name(l.Instr.Opcode)
	sb.WriteString(strings.ToLower(name))

	for j := 0; j < l.Instr.Argc; j++ {
		sb.WriteByte(' ')
		sb.WriteString(formatOperand(l.Instr.Opcode, l.Instr.Args[j]))
	}

	return sb.String()
}

// Write writes a listing of the given image to w.
func Write(w io.Writer, image []uint16) error {
	bw := bufio.NewWriter(w)

	for _, line := range Disassemble(image) {
		fmt.Fprintf(bw, "    %-28s ; %04x\n", line.String(), line.Address)
	}

	return bw.Flush()
}

// Strings returns the text printed by runs of consecutive OUT instructions
// with literal operands. This recovers most static messages in a program.
func Strings(image []uint16) []string {
	var out []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			out = append(out, sb.String())
			sb.Reset()
		}
	}

	for _, line := range Disassemble(image) {
		if line.Instr != nil && line.Instr.Opcode == arch.OUT && line.Instr.Args[0].Kind == arch.Literal {
			sb.WriteRune(rune(line.Instr.Args[0].Value))
			continue
		}
		flush()
	}

	flush()
	return out
}

// formatOperand returns the operand in assembler syntax. Printable
// characters written by OUT are shown as character literals.
func formatOperand(opcode int, op arch.Operand) string {
	if op.Kind == arch.Register {
		return strings.ToLower(arch.RegisterName(op.Value))
	}

	if opcode == arch.OUT && (op.Value == '\n' || op.Value < 0x80 && strconv.IsPrint(rune(op.Value))) {
		return strconv.QuoteRune(rune(op.Value))
	}

	return strconv.Itoa(op.Value)
}

// formatRaw returns a data word in assembler syntax.
func formatRaw(v int) string {
	if v > arch.WordMax {
		return fmt.Sprintf("16#%04x", v)
	}
	return strconv.Itoa(v)
}
