package devices

// Console is a character device serving the OUT and IN instructions.
type Console interface {
	Device

	// WriteChar appends the character with the given code to the output.
	WriteChar(c int) error

	// ReadChar returns the next input character. Input is line buffered:
	// it blocks until a full line is available and returns io.EOF once
	// the input source is exhausted.
	ReadChar() (int, error)
}
