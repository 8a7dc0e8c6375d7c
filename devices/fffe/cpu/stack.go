package cpu

// Stack defines the unbounded value and call stack.
type Stack []uint16

// Len returns the number of values on the stack.
func (s Stack) Len() int {
	return len(s)
}

// Push pushes the given value onto the stack.
func (s *Stack) Push(value int) {
	*s = append(*s, uint16(value))
}

// Pop removes and returns the top value.
// Returns StackUnderflow if the stack is empty.
func (s *Stack) Pop() (int, error) {
	if len(*s) == 0 {
		return 0, StackUnderflow
	}

	var v uint16
	*s, v = (*s)[:len(*s)-1], (*s)[len(*s)-1]
	return int(v), nil
}
