package zeebasic

// BaseType is the closed set of value types this language subset knows about. Unknown is a sentinel used only
// before a node's type has been resolved.
type BaseType int

const (
	Unknown BaseType = iota
	Boolean
	Integer
	Real
	String
)

// String renders the base type the way it appears in diagnostic messages.
func (b BaseType) String() string {
	switch b {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Type wraps a BaseType. It has room to grow (array shape, etc.) but only Base is used by this language subset.
type Type struct {
	Base BaseType
}

// Symbol is a declared identifier: its canonical text, the source range of its first mention, and its fixed type.
type Symbol struct {
	Name          InternedText
	DeclaredRange Range
	Type          Type
}

// SymbolTable is an insertion-ordered mapping from canonical identifier text to Symbol. Canonical equality is
// case-insensitive on the alphabetic portion and exact on the sigil (InternedText.Equal covers both, since the
// sigil participates in the compared string). Emission iterates symbols in insertion order.
type SymbolTable struct {
	order []*Symbol
	byKey map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byKey: make(map[string]*Symbol)}
}

// key returns the case-folded lookup key for a name; sigils are part of the text so they remain exact.
func key(name InternedText) string {
	return toLowerASCII(name.String())
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// Lookup returns the existing Symbol for name, or nil if it hasn't been declared.
func (t *SymbolTable) Lookup(name InternedText) *Symbol {
	return t.byKey[key(name)]
}

// Declare returns the Symbol for name, creating one of type typ at rng if this is the first mention. If name was
// already declared with a conflicting type, ok is false and the existing Symbol is returned unchanged.
func (t *SymbolTable) Declare(name InternedText, typ Type, rng Range) (sym *Symbol, ok bool) {
	if existing := t.Lookup(name); existing != nil {
		return existing, existing.Type.Base == typ.Base
	}

	sym = &Symbol{Name: name, DeclaredRange: rng, Type: typ}
	t.byKey[key(name)] = sym
	t.order = append(t.order, sym)

	return sym, true
}

// InOrder returns all declared symbols in first-mention (insertion) order.
func (t *SymbolTable) InOrder() []*Symbol {
	return t.order
}
