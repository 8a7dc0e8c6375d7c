package asm

import "fmt"

// Position defines the source position for a token.
type Position struct {
	File   string // File in which token was defined.
	Line   int    // Line number at which token was defined.
	Col    int    // Column number at which token was defined.
	Offset int    // Byte offset at which token was defined.
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// Error defines a build error with source context.
type Error struct {
	Pos Position
	Msg string
}

// newError creates a new, formatted error message with the given source context.
func newError(pos Position, f string, argv ...interface{}) *Error {
	return &Error{
		Pos: pos,
		Msg: fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return e.Pos.String() + " " + e.Msg
}
