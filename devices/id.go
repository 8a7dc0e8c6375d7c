package devices

import "fmt"

// ID names a peripheral as "manufacturer:serial", both 16 bits wide.
// Map.Connect refuses a second device with an ID already present.
type ID uint32

// Builtin is the manufacturer of everything shipped with synvm.
const Builtin = 0xfffe

// Serial numbers of the built-in devices.
const (
	SerialCPU = 0x0001
	SerialTTY = 0x0002
)

// NewID creates a new id with the given components.
func NewID(manufacturer, serial int) ID {
	return ID(manufacturer&0xffff)<<16 | ID(serial&0xffff)
}

func (id ID) Manufacturer() int { return int(id>>16) & 0xffff }
func (id ID) Serial() int       { return int(id) & 0xffff }

// String returns the id as used in log lines, e.g. "fffe:0001".
func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Manufacturer(), id.Serial())
}
