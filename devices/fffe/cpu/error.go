package cpu

import "fmt"

// Fault describes the reason the CPU stopped executing a program.
type Fault int

// Known faults.
const (
	UnknownOpcode Fault = 1 + iota
	InvalidOperand
	OutOfBounds
	StackUnderflow
	DivideByZero
	IOError
)

var strFault = [...]string{
	UnknownOpcode:  "unknown opcode",
	InvalidOperand: "invalid operand",
	OutOfBounds:    "address out of bounds",
	StackUnderflow: "stack underflow",
	DivideByZero:   "divide by zero",
	IOError:        "I/O error",
}

func (f Fault) Error() string {
	if f > 0 && int(f) < len(strFault) {
		return strFault[f]
	}
	return fmt.Sprintf("fault %d", int(f))
}

// Error defines a runtime fault along with the instruction that raised it.
type Error struct {
	Instruction       // Copy of the failing instruction, as far as it was decoded.
	Fault       Fault // Nature of the fault.
	Value       int   // Offending address, opcode or raw operand value.
	Err         error // Underlying error when Fault is IOError.
	Msg         string
}

// NewError creates a new, formatted error message for the given instruction.
func NewError(instr *Instruction, fault Fault, value int, f string, argv ...interface{}) *Error {
	return &Error{
		Instruction: *instr,
		Fault:       fault,
		Value:       value,
		Msg:         fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%04x: %s: %s", e.IP, e.Fault, e.Msg)
	if e.Opcode >= 0 {
		msg += " (" + e.Instruction.String() + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the Fault of this error.
func (e *Error) Is(target error) bool {
	f, ok := target.(Fault)
	return ok && f == e.Fault
}

// Unwrap returns the underlying I/O error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}
