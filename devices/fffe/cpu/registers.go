package cpu

import "github.com/hexaflex/synvm/arch"

// Registers defines the general purpose register file.
// Indices come from decoded operands and are always in range.
type Registers [arch.RegisterCount]uint16

// Read returns the value of register n.
func (r *Registers) Read(n int) int {
	return int(r[n])
}

// Write sets register n to the given value.
func (r *Registers) Write(n, value int) {
	r[n] = uint16(value & arch.WordMax)
}
