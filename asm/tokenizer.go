package asm

import (
	"io"
	"runtime"
	"strings"
)

// Known token types.
const (
	tokLabel = 1 + iota
	tokIdent
	tokNumber
	tokChar
	tokString
	tokEnd // End of a statement.
)

// token is a single lexical element of source code.
type token struct {
	typ   int
	pos   Position
	value string
}

// tokenizer defines tokenizer state.
type tokenizer struct {
	data   []byte
	tokens []token
	start  Position
	end    Position
}

// tokenize reads sourcecode from the given reader and turns it into a flat
// list of tokens. The filename provides source context for each token.
func tokenize(r io.Reader, filename string) (tokens []token, err error) {
	var tok tokenizer

	tok.data, err = io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// The tokenizer reports errors through the use of a panic.
	// We need to catch it here and convert it to a proper error message.
	defer func() {
		x := recover()
		if x == nil {
			return
		}

		if _, ok := x.(runtime.Error); ok {
			panic(x)
		}

		err = x.(error)
	}()

	tok.start = Position{File: filename, Line: 1, Col: 1}
	tok.end = tok.start
	tok.readDocument()
	return tok.tokens, nil
}

// readDocument reads a source file.
func (t *tokenizer) readDocument() {
	for !t.atEOF() {
		switch {
		case t.readSpace():
		case t.readComment():
		case t.readLabel():
		case t.readString():
		case t.readCharLiteral():
		case t.readNumber():
		case t.readIdent():
		default:
			t.error("unexpected character '%c'", t.data[t.end.Offset])
		}
	}
	t.emit(tokEnd)
}

// readSpace skips whitespace and operand separators.
// A newline ends the current statement.
func (t *tokenizer) readSpace() bool {
	var found bool
	for !t.atEOF() {
		switch c := t.peek(); c {
		case '\n':
			t.read()
			t.emitAt(tokEnd, "")
		case ' ', '\t', '\r', ',':
			t.read()
		default:
			t.ignore()
			return found
		}
		found = true
	}
	t.ignore()
	return found
}

// readComment skips a comment running until the end of the line.
func (t *tokenizer) readComment() bool {
	if t.peek() != ';' {
		return false
	}

	for !t.atEOF() && t.peek() != '\n' {
		t.read()
	}
	t.ignore()
	return true
}

// readLabel reads a label definition of the form ":name".
func (t *tokenizer) readLabel() bool {
	if t.peek() != ':' {
		return false
	}

	t.read()
	t.ignore()

	if !t.readName() {
		t.error("invalid label definition; expected name")
	}

	t.emit(tokLabel)
	return true
}

// readIdent reads an instruction name, register or label reference.
func (t *tokenizer) readIdent() bool {
	if !t.readName() {
		return false
	}
	t.emit(tokIdent)
	return true
}

func (t *tokenizer) readName() bool {
	if t.atEOF() || !isNameStart(t.peek()) {
		return false
	}

	for !t.atEOF() && isNameChar(t.peek()) {
		t.read()
	}
	return true
}

// readNumber reads a number in the form "123", "-1" or "<base>#<digits>".
func (t *tokenizer) readNumber() bool {
	c := t.peek()
	if !isDigit(c) && c != '-' {
		return false
	}

	t.read()
	for !t.atEOF() && (isNameChar(t.peek()) || t.peek() == '#') {
		t.read()
	}

	t.emit(tokNumber)
	return true
}

// readCharLiteral reads a quoted character like 'a' or '\n'.
func (t *tokenizer) readCharLiteral() bool {
	if t.peek() != '\'' {
		return false
	}
	t.readQuoted('\'')
	t.emit(tokChar)
	return true
}

// readString reads a quoted string.
func (t *tokenizer) readString() bool {
	if t.peek() != '"' {
		return false
	}
	t.readQuoted('"')
	t.emit(tokString)
	return true
}

func (t *tokenizer) readQuoted(quote byte) {
	t.read()

	for {
		if t.atEOF() || t.peek() == '\n' {
			t.error("unterminated literal")
		}

		switch t.read() {
		case '\\':
			if t.atEOF() {
				t.error("unterminated literal")
			}
			t.read()
		case quote:
			return
		}
	}
}

func (t *tokenizer) atEOF() bool {
	return t.end.Offset >= len(t.data)
}

func (t *tokenizer) peek() byte {
	if t.atEOF() {
		return 0
	}
	return t.data[t.end.Offset]
}

// read consumes one byte and updates the source position.
func (t *tokenizer) read() byte {
	c := t.data[t.end.Offset]
	t.end.Offset++
	if c == '\n' {
		t.end.Line++
		t.end.Col = 1
	} else {
		t.end.Col++
	}
	return c
}

// current returns the current read token.
func (t *tokenizer) current() string {
	return string(t.data[t.start.Offset:t.end.Offset])
}

// error panics with a new error for the current token.
func (t *tokenizer) error(f string, argv ...interface{}) {
	panic(newError(t.start, f, argv...))
}

// emit emits a new token of the given type, using the currently
// read buffer.
func (t *tokenizer) emit(typ int) {
	t.emitAt(typ, t.current())
}

func (t *tokenizer) emitAt(typ int, value string) {
	// Collapse empty statements.
	if typ == tokEnd && (len(t.tokens) == 0 || t.tokens[len(t.tokens)-1].typ == tokEnd) {
		t.ignore()
		return
	}

	t.tokens = append(t.tokens, token{typ: typ, pos: t.start, value: value})
	t.ignore()
}

// ignore skips the currently read buffer.
func (t *tokenizer) ignore() {
	t.start = t.end
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

// stripUnderscores removes digit separators from a number.
func stripUnderscores(s string) string {
	return strings.ReplaceAll(s, "_", "")
}
