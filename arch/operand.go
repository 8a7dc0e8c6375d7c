package arch

// Machine word limits.
const (
	WordMax        = 0x7fff                           // Largest value a word can hold.
	Modulus        = WordMax + 1                      // Arithmetic is performed modulo this value.
	RegisterBase   = Modulus                          // Raw operand value referring to register 0.
	RegisterCount  = 8                                // Number of general purpose registers.
	MemoryCapacity = Modulus                          // Number of addressable memory words.
	RawMax         = RegisterBase + RegisterCount - 1 // Largest valid raw operand.
)

// OperandKind defines how a raw operand value is interpreted.
type OperandKind byte

// Known operand kinds.
const (
	Literal  OperandKind = 0 // x = 123
	Register OperandKind = 1 // x = r0
)

func (k OperandKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Register:
		return "register"
	}
	return "invalid"
}

// Operand is a resolved instruction operand.
type Operand struct {
	Kind  OperandKind // Literal or register reference.
	Value int         // The literal value, or the register index.
}

// Resolve classifies the given raw operand value.
//
// Values 0..32767 are literals. Values 32768..32775 refer to registers 0..7.
// Anything else is invalid and yields false.
func Resolve(raw int) (Operand, bool) {
	switch {
	case raw >= 0 && raw <= WordMax:
		return Operand{Kind: Literal, Value: raw}, true
	case raw >= RegisterBase && raw <= RawMax:
		return Operand{Kind: Register, Value: raw - RegisterBase}, true
	}
	return Operand{}, false
}

// Raw returns the encoded form of the operand.
func (o Operand) Raw() int {
	if o.Kind == Register {
		return RegisterBase + o.Value
	}
	return o.Value
}
