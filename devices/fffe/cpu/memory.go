package cpu

import "github.com/hexaflex/synvm/arch"

// Memory defines the system's memory bank. Code and data share the
// same word addressed space. Its size is fixed when the CPU starts up.
type Memory []uint16

// NewMemory creates a zeroed memory bank of the given number of words.
func NewMemory(size int) Memory {
	return make(Memory, size)
}

// Read returns the word at the given address.
// Returns OutOfBounds if the address lies outside the bank.
func (m Memory) Read(addr int) (int, error) {
	if addr < 0 || addr >= len(m) {
		return 0, OutOfBounds
	}
	return int(m[addr]), nil
}

// Write sets the word at the given address.
// Returns OutOfBounds if the address lies outside the bank.
func (m Memory) Write(addr, value int) error {
	if addr < 0 || addr >= len(m) {
		return OutOfBounds
	}
	m[addr] = uint16(value & arch.WordMax)
	return nil
}

// Load copies the given program into memory, starting at address 0.
func (m Memory) Load(program []uint16) {
	copy(m, program)
}
