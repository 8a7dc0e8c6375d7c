package cpu

import (
	"fmt"
	"strings"

	"github.com/hexaflex/synvm/arch"
)

// Instruction defines decoded instruction data.
//
// It is decoded from live memory every time the CPU visits an address,
// so writes into the instruction stream are always observed.
type Instruction struct {
	IP     int             // Instruction address.
	Opcode int             // Instruction opcode; -1 if it could not be read.
	Args   [3]arch.Operand // Operand A, B and C.
	Argc   int             // Number of operands decoded so far.
	Next   int             // Fallthrough address.
}

// Decode decodes the instruction at the given address from the given memory bank.
func (i *Instruction) Decode(m Memory, addr int) error {
	i.IP = addr
	i.Opcode = -1
	i.Argc = 0
	i.Next = addr

	op, err := m.Read(addr)
	if err != nil {
		return NewError(i, OutOfBounds, addr, "fetch from %04x", addr)
	}

	argc := arch.Argc(op)
	if argc < 0 {
		return NewError(i, UnknownOpcode, op, "unknown opcode %d", op)
	}

	i.Opcode = op

	for j := 0; j < argc; j++ {
		at := addr + 1 + j

		raw, err := m.Read(at)
		if err != nil {
			return NewError(i, OutOfBounds, at, "operand %c at %04x", 'a'+j, at)
		}

		arg, ok := arch.Resolve(raw)
		if !ok {
			return NewError(i, InvalidOperand, raw, "operand %c at %04x has raw value %d", 'a'+j, at, raw)
		}

		i.Args[j] = arg
		i.Argc++
	}

	if arch.WritesRegister(op) && i.Args[0].Kind != arch.Register {
		return NewError(i, InvalidOperand, i.Args[0].Raw(), "operand a must name a register")
	}

	i.Next = addr + 1 + argc
	return nil
}

// String returns a human-readable form of the instruction.
func (i *Instruction) String() string {
	name, ok := arch.Name(i.Opcode)
	if !ok {
		name = fmt.Sprintf("%02x", i.Opcode)
	}

	if i.Argc == 0 {
		return name
	}

	var sb strings.Builder
	sb.WriteString(name)

	for j := 0; j < i.Argc; j++ {
		if j == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatOperand(i.Args[j]))
	}

	return sb.String()
}

// FormatOperand returns a human-readable form of the given operand.
func FormatOperand(op arch.Operand) string {
	if op.Kind == arch.Register {
		return arch.RegisterName(op.Value)
	}
	return fmt.Sprintf("%04x", op.Value)
}
