// Package asm implements an assembler which turns source code into
// a program image, ready for use on a VM.
//
// Source is line based. Each line holds an optional label definition,
// followed by an instruction and its operands:
//
//	; print a greeting
//	:main
//	    out 'h'
//	    out 'i'
//	    call newline
//	    halt
//	:newline
//	    out '\n'
//	    ret
//
// Operands are registers (r0-r7), numbers (123, 16#7fff, 2#1010),
// character literals ('a', '\n') or label references. The data
// directive emits raw words and accepts strings as well:
//
//	:greeting
//	    data "hello" 10 0
package asm

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hexaflex/synvm/arch"
)

// Data is the directive used to emit raw words.
const Data = "data"

// Program defines an assembled program.
type Program struct {
	Words   []uint16       // Program image.
	Symbols map[string]int // Label names mapped to their addresses.
}

// Labels returns the label names sorted by address.
func (p *Program) Labels() []string {
	names := make([]string, 0, len(p.Symbols))
	for name := range p.Symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := p.Symbols[names[i]], p.Symbols[names[j]]
		if a == b {
			return names[i] < names[j]
		}
		return a < b
	})
	return names
}

// statement is a single instruction or data directive.
type statement struct {
	pos     Position
	name    string  // Lower case mnemonic or directive.
	opcode  int     // Opcode for instructions.
	args    []token // Operand tokens.
	address int     // Address of the first word.
}

// assembler holds assembler context.
type assembler struct {
	symbols    map[string]int // Table of labels mapped to their respective addresses.
	statements []*statement
	address    int // Address at which next statement is written.
}

// Assemble compiles the source read from r. The filename provides
// source context for error messages.
func Assemble(r io.Reader, filename string) (*Program, error) {
	tokens, err := tokenize(r, filename)
	if err != nil {
		return nil, err
	}

	a := &assembler{symbols: make(map[string]int)}
	if err := a.parse(tokens); err != nil {
		return nil, err
	}

	words, err := a.compile()
	if err != nil {
		return nil, err
	}

	return &Program{Words: words, Symbols: a.symbols}, nil
}

// AssembleFile compiles the given source file.
func AssembleFile(file string) (*Program, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer fd.Close()
	return Assemble(fd, file)
}

// parse groups tokens into statements and assigns addresses and labels.
func (a *assembler) parse(tokens []token) error {
	var stmt *statement

	for _, tok := range tokens {
		switch {
		case tok.typ == tokEnd:
			if stmt != nil {
				if err := a.add(stmt); err != nil {
					return err
				}
			}
			stmt = nil

		case tok.typ == tokLabel:
			if stmt != nil {
				return newError(tok.pos, "label %q must start a line", tok.value)
			}
			if err := a.defineLabel(tok); err != nil {
				return err
			}

		case stmt == nil:
			if tok.typ != tokIdent {
				return newError(tok.pos, "unexpected %q; expected instruction", tok.value)
			}
			stmt = &statement{pos: tok.pos, name: strings.ToLower(tok.value)}

		default:
			stmt.args = append(stmt.args, tok)
		}
	}

	return nil
}

// defineLabel records the current address under the given label.
func (a *assembler) defineLabel(tok token) error {
	key := strings.ToLower(tok.value)
	if arch.IsRegister(key) {
		return newError(tok.pos, "label %q shadows a register", tok.value)
	}

	if _, ok := a.symbols[key]; ok {
		return newError(tok.pos, "duplicate symbol %q", tok.value)
	}

	a.symbols[key] = a.address
	return nil
}

// add validates the given statement and reserves its address range.
func (a *assembler) add(stmt *statement) error {
	stmt.address = a.address

	if stmt.name == Data {
		size := 0
		for _, arg := range stmt.args {
			if arg.typ == tokString {
				s, err := unquote(arg)
				if err != nil {
					return err
				}
				for _, r := range s {
					if r > arch.WordMax {
						return newError(arg.pos, "character %U in %s out of range [0, %d]", r, arg.value, arch.WordMax)
					}
				}
				size += len([]rune(s))
			} else {
				size++
			}
		}
		if size == 0 {
			return newError(stmt.pos, "data directive without values")
		}
		return a.reserve(stmt, size)
	}

	opcode, ok := arch.Opcode(stmt.name)
	if !ok {
		return newError(stmt.pos, "unknown instruction %q", stmt.name)
	}

	argc := arch.Argc(opcode)
	if len(stmt.args) != argc {
		return newError(stmt.pos, "%s expects %d operand(s); have %d", stmt.name, argc, len(stmt.args))
	}

	stmt.opcode = opcode
	return a.reserve(stmt, 1+argc)
}

func (a *assembler) reserve(stmt *statement, size int) error {
	if a.address+size > arch.MemoryCapacity {
		return newError(stmt.pos, "program exceeds %d words", arch.MemoryCapacity)
	}

	a.address += size
	a.statements = append(a.statements, stmt)
	return nil
}

// compile emits the words for all statements.
func (a *assembler) compile() ([]uint16, error) {
	words := make([]uint16, 0, a.address)

	for _, stmt := range a.statements {
		if stmt.name == Data {
			for _, arg := range stmt.args {
				if arg.typ == tokString {
					s, _ := unquote(arg)
					for _, r := range s {
						words = append(words, uint16(r))
					}
					continue
				}

				v, err := a.value(arg, 0xffff)
				if err != nil {
					return nil, err
				}
				words = append(words, uint16(v))
			}
			continue
		}

		words = append(words, uint16(stmt.opcode))

		for j, arg := range stmt.args {
			v, err := a.operand(arg)
			if err != nil {
				return nil, err
			}

			if j == 0 && arch.WritesRegister(stmt.opcode) && v < arch.RegisterBase {
				return nil, newError(arg.pos, "%s expects a register as its first operand", stmt.name)
			}

			words = append(words, uint16(v))
		}
	}

	return words, nil
}

// operand returns the encoded value for an instruction operand.
func (a *assembler) operand(tok token) (int, error) {
	if tok.typ == tokIdent {
		if n := arch.RegisterIndex(tok.value); n > -1 {
			return arch.RegisterBase + n, nil
		}
	}
	return a.value(tok, arch.WordMax)
}

// value evaluates a literal or label reference. The result must lie in [0, max].
func (a *assembler) value(tok token, max int) (int, error) {
	var v int

	switch tok.typ {
	case tokNumber:
		n, err := parseNumber(tok.value)
		if err != nil {
			return 0, newError(tok.pos, "invalid number %q", tok.value)
		}
		v = n

	case tokChar:
		s, err := unquote(tok)
		if err != nil {
			return 0, err
		}
		r := []rune(s)
		if len(r) != 1 {
			return 0, newError(tok.pos, "invalid character literal %s", tok.value)
		}
		v = int(r[0])

	case tokIdent:
		if n := arch.RegisterIndex(tok.value); n > -1 {
			return arch.RegisterBase + n, nil
		}
		addr, ok := a.symbols[strings.ToLower(tok.value)]
		if !ok {
			return 0, newError(tok.pos, "undefined symbol %q", tok.value)
		}
		v = addr

	default:
		return 0, newError(tok.pos, "unexpected %s here", tok.value)
	}

	if v < 0 || v > max {
		return 0, newError(tok.pos, "value %d out of range [0, %d]", v, max)
	}
	return v, nil
}

// parseNumber parses a number in decimal or "<base>#<digits>" notation.
func parseNumber(s string) (int, error) {
	s = stripUnderscores(s)

	base := 10
	if i := strings.IndexByte(s, '#'); i > -1 {
		b, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, err
		}
		base, s = b, s[i+1:]
	}

	n, err := strconv.ParseInt(s, base, 32)
	return int(n), err
}

func unquote(tok token) (string, error) {
	s, err := strconv.Unquote(tok.value)
	if err != nil {
		return "", newError(tok.pos, "invalid literal %s", tok.value)
	}
	return s, nil
}
