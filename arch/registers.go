package arch

import (
	"strconv"
	"strings"
)

// IsRegister returns true if the given name represents a known register.
func IsRegister(name string) bool {
	return RegisterIndex(name) > -1
}

// RegisterIndex returns the index for the given register.
// Register names are "r0" through "r7".
// Returns -1 if the name is not recognized.
func RegisterIndex(name string) int {
	name = strings.ToLower(name)
	if len(name) != 2 || name[0] != 'r' {
		return -1
	}

	n := int(name[1] - '0')
	if n < 0 || n >= RegisterCount {
		return -1
	}
	return n
}

// RegisterName returns the name associated with the given register index.
// Returns "" if the index is not recognized.
func RegisterName(n int) string {
	if n < 0 || n >= RegisterCount {
		return ""
	}
	return "R" + strconv.Itoa(n)
}
