// Package arch defines the system's instruction set along with
// some related helper functions.
package arch

import "strings"

// Known opcodes.
const (
	HALT = iota
	SET
	PUSH
	POP
	EQ
	GT
	JMP
	JT
	JF
	ADD
	MULT
	MOD
	AND
	OR
	NOT
	RMEM
	WMEM
	CALL
	RET
	OUT
	IN
	NOOP
)

// OpcodeCount is the number of defined opcodes. Valid opcodes are
// in the range [0, OpcodeCount).
const OpcodeCount = NOOP + 1

// Opcode returns the opcode for the given instruction name.
// Returns false if the name is not recognized.
func Opcode(name string) (int, bool) {
	switch strings.ToUpper(name) {
	case "HALT":
		return HALT, true
	case "SET":
		return SET, true
	case "PUSH":
		return PUSH, true
	case "POP":
		return POP, true
	case "EQ":
		return EQ, true
	case "GT":
		return GT, true

	case "JMP":
		return JMP, true
	case "JT":
		return JT, true
	case "JF":
		return JF, true

	case "ADD":
		return ADD, true
	case "MULT":
		return MULT, true
	case "MOD":
		return MOD, true
	case "AND":
		return AND, true
	case "OR":
		return OR, true
	case "NOT":
		return NOT, true

	case "RMEM":
		return RMEM, true
	case "WMEM":
		return WMEM, true

	case "CALL":
		return CALL, true
	case "RET":
		return RET, true

	case "OUT":
		return OUT, true
	case "IN":
		return IN, true

	case "NOOP":
		return NOOP, true
	}

	return 0, false
}

// Name returns the name for the given opcode.
// Returns false if the opcode is not recognized.
func Name(opcode int) (string, bool) {
	switch opcode {
	case HALT:
		return "HALT", true
	case SET:
		return "SET", true
	case PUSH:
		return "PUSH", true
	case POP:
		return "POP", true
	case EQ:
		return "EQ", true
	case GT:
		return "GT", true

	case JMP:
		return "JMP", true
	case JT:
		return "JT", true
	case JF:
		return "JF", true

	case ADD:
		return "ADD", true
	case MULT:
		return "MULT", true
	case MOD:
		return "MOD", true
	case AND:
		return "AND", true
	case OR:
		return "OR", true
	case NOT:
		return "NOT", true

	case RMEM:
		return "RMEM", true
	case WMEM:
		return "WMEM", true

	case CALL:
		return "CALL", true
	case RET:
		return "RET", true

	case OUT:
		return "OUT", true
	case IN:
		return "IN", true

	case NOOP:
		return "NOOP", true
	}

	return "", false
}

// Argc returns the number of arguments the given instruction requires.
// Returns -1 if the opcode is not recognized.
func Argc(opcode int) int {
	switch opcode {
	case EQ, GT, ADD, MULT, MOD, AND, OR:
		return 3
	case SET, JT, JF, NOT, RMEM, WMEM:
		return 2
	case PUSH, POP, JMP, CALL, OUT, IN:
		return 1
	case HALT, RET, NOOP:
		return 0
	}
	return -1
}

// WritesRegister returns true if the first operand of the given opcode
// names the register that receives the result.
func WritesRegister(opcode int) bool {
	switch opcode {
	case SET, POP, EQ, GT, ADD, MULT, MOD, AND, OR, NOT, RMEM, IN:
		return true
	}
	return false
}
