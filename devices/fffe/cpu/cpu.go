// Package cpu implements the synvm CPU.
package cpu

import (
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/hexaflex/synvm/arch"
	"github.com/hexaflex/synvm/devices"
)

// TraceFunc represents a callback handler for debug trace output.
// It receives each executed instruction and the address execution
// continues at.
type TraceFunc func(instr *Instruction, next int)

// State defines the execution state of the CPU.
type State int

// Known execution states.
const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return "unknown"
}

// CPU implements the runtime.
type CPU struct {
	devices     devices.Map     // Connected peripherals.
	console     devices.Console // Terminal serving OUT and IN; may be nil.
	trace       TraceFunc       // Handler for debug trace output; may be nil.
	memory      Memory          // System memory.
	registers   Registers       // General purpose registers.
	stack       Stack           // Value and call stack.
	instr       Instruction     // Decoded instruction data.
	pc          int             // Address of the next instruction.
	steps       uint64          // Number of instructions executed.
	state       State           // Current execution state.
	fault       error           // Fault which stopped execution, if any.
	initialized bool            // Is there a valid program loaded?
}

// New creates a new CPU.
// Optionally with the given debug trace handler.
func New(trace TraceFunc) *CPU {
	return &CPU{
		trace: trace,
	}
}

// ID returns the cpu's device Id.
func (c *CPU) ID() devices.ID {
	return devices.NewID(devices.Builtin, devices.SerialCPU)
}

// Connect connects the given hardware peripheral to the system.
// Returns false if the given device type is already connected.
func (c *CPU) Connect(dev devices.Device) bool {
	return c.devices.Connect(dev)
}

// Startup loads the given program at address 0 and initializes the cpu
// and connected peripherals. The memory bank holds capacity words; zero
// selects arch.MemoryCapacity.
//
// Returns an error if a program is already loaded. Use Shutdown() first.
func (c *CPU) Startup(program []uint16, capacity int) error {
	if c.initialized {
		return errors.New(c.ID().String() + " program is already loaded")
	}

	if capacity == 0 {
		capacity = arch.MemoryCapacity
	}

	if capacity < 0 || capacity > arch.MemoryCapacity {
		return errors.Errorf("%s invalid memory capacity %d", c.ID(), capacity)
	}

	if len(program) > capacity {
		return errors.Errorf("%s program of %d words exceeds memory capacity of %d",
			c.ID(), len(program), capacity)
	}

	log.Println(c.ID(), "startup")
	c.memory = NewMemory(capacity)
	c.memory.Load(program)
	c.registers = Registers{}
	c.stack = c.stack[:0]
	c.pc = 0
	c.steps = 0
	c.state = Running
	c.fault = nil
	c.console = c.devices.Console()
	c.initialized = true

	return c.devices.Startup()
}

// Shutdown cleans up internal resources.
func (c *CPU) Shutdown() error {
	if !c.initialized {
		return nil
	}
	c.initialized = false
	log.Println(c.ID(), "shutdown")
	return c.devices.Shutdown()
}

// Memory returns the cpu's memory bank.
func (c *CPU) Memory() Memory { return c.memory }

// Registers returns the register file.
func (c *CPU) Registers() *Registers { return &c.registers }

// Stack returns the value and call stack.
func (c *CPU) Stack() Stack { return c.stack }

// PC returns the address of the next instruction to execute.
func (c *CPU) PC() int { return c.pc }

// Steps returns the number of instructions executed since startup.
func (c *CPU) Steps() uint64 { return c.steps }

// State returns the current execution state.
func (c *CPU) State() State { return c.state }

// Fault returns the error which put the cpu in the Faulted state.
func (c *CPU) Fault() error { return c.fault }

// Run executes instructions until the program halts or faults.
// Returns nil on a regular halt.
func (c *CPU) Run() error {
	for {
		err := c.Step()
		if err == nil {
			continue
		}
		if err == io.EOF {
			return nil
		}
		return err
	}
}

// Step performs a single execution step.
// Returns io.EOF if the program has reached its end
// or no program is loaded. Returns a *Error if the program faulted.
// Once halted or faulted, every call returns the same result.
func (c *CPU) Step() error {
	switch {
	case !c.initialized:
		return io.EOF
	case c.state == Halted:
		return io.EOF
	case c.state == Faulted:
		return c.fault
	}

	instr := &c.instr
	if err := instr.Decode(c.memory, c.pc); err != nil {
		return c.fail(err)
	}

	next, err := c.exec(instr)
	switch {
	case err == io.EOF:
		c.steps++
		c.state = Halted
		if c.trace != nil {
			c.trace(instr, instr.IP)
		}
		return io.EOF
	case err != nil:
		return c.fail(err)
	}

	// The pc never leaves memory while running. A jump, call, return or
	// fallthrough past the end faults on the instruction that caused it.
	if next < 0 || next >= len(c.memory) {
		return c.fail(NewError(instr, OutOfBounds, next, "next instruction at %04x", next))
	}

	c.steps++
	c.pc = next

	if c.trace != nil {
		c.trace(instr, next)
	}
	return nil
}

// exec applies the semantics of the given instruction.
// It returns the address of the next instruction, or io.EOF if the
// program halted.
func (c *CPU) exec(instr *Instruction) (int, error) {
	args := instr.Args[:instr.Argc]
	regs := &c.registers

	switch instr.Opcode {
	case arch.HALT:
		return 0, io.EOF

	case arch.SET:
		regs.Write(args[0].Value, c.value(args[1]))
	case arch.PUSH:
		c.stack.Push(c.value(args[0]))
	case arch.POP:
		v, err := c.stack.Pop()
		if err != nil {
			return 0, NewError(instr, StackUnderflow, 0, "pop from empty stack")
		}
		regs.Write(args[0].Value, v)

	case arch.EQ:
		regs.Write(args[0].Value, _bool(c.value(args[1]) == c.value(args[2])))
	case arch.GT:
		regs.Write(args[0].Value, _bool(c.value(args[1]) > c.value(args[2])))

	case arch.JMP:
		return c.value(args[0]), nil
	case arch.JT:
		if c.value(args[0]) != 0 {
			return c.value(args[1]), nil
		}
	case arch.JF:
		if c.value(args[0]) == 0 {
			return c.value(args[1]), nil
		}

	case arch.ADD:
		vb := c.value(args[1]) + c.value(args[2])
		regs.Write(args[0].Value, vb%arch.Modulus)
	case arch.MULT:
		vb := c.value(args[1]) * c.value(args[2])
		regs.Write(args[0].Value, vb%arch.Modulus)
	case arch.MOD:
		vc := c.value(args[2])
		if vc == 0 {
			return 0, NewError(instr, DivideByZero, 0, "modulo by zero")
		}
		regs.Write(args[0].Value, c.value(args[1])%vc)
	case arch.AND:
		regs.Write(args[0].Value, c.value(args[1])&c.value(args[2]))
	case arch.OR:
		regs.Write(args[0].Value, c.value(args[1])|c.value(args[2]))
	case arch.NOT:
		regs.Write(args[0].Value, arch.WordMax-c.value(args[1]))

	case arch.RMEM:
		addr := c.value(args[1])
		v, err := c.memory.Read(addr)
		if err != nil {
			return 0, NewError(instr, OutOfBounds, addr, "read from %04x", addr)
		}
		regs.Write(args[0].Value, v)
	case arch.WMEM:
		addr := c.value(args[0])
		if err := c.memory.Write(addr, c.value(args[1])); err != nil {
			return 0, NewError(instr, OutOfBounds, addr, "write to %04x", addr)
		}

	case arch.CALL:
		c.stack.Push(instr.Next)
		return c.value(args[0]), nil
	case arch.RET:
		addr, err := c.stack.Pop()
		if err != nil {
			return 0, io.EOF
		}
		return addr, nil

	case arch.OUT:
		if c.console == nil {
			break
		}
		if err := c.console.WriteChar(c.value(args[0])); err != nil {
			return 0, c.ioError(instr, err)
		}
	case arch.IN:
		if c.console == nil {
			return 0, io.EOF
		}
		ch, err := c.console.ReadChar()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, c.ioError(instr, err)
		}
		regs.Write(args[0].Value, ch)

	case arch.NOOP:
		/* nop */
	}

	return instr.Next, nil
}

// value returns the value of the given operand: literals yield
// themselves, registers their current contents.
func (c *CPU) value(op arch.Operand) int {
	if op.Kind == arch.Register {
		return c.registers.Read(op.Value)
	}
	return op.Value
}

// fail moves the cpu into the Faulted state.
func (c *CPU) fail(err error) error {
	c.state = Faulted
	c.fault = err
	return err
}

func (c *CPU) ioError(instr *Instruction, err error) *Error {
	e := NewError(instr, IOError, 0, "console")
	e.Err = err
	return e
}

func _bool(v bool) int {
	if v {
		return 1
	}
	return 0
}
