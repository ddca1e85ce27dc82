package zeebasic

import "strings"

// InternedText is a cheap-to-copy view over a lexeme: an identifier or literal's source text, interned for the
// duration of one compilation. Two InternedTexts compare case-insensitively.
type InternedText struct {
	s string
}

// Interner hands out InternedText values backed by a process-local arena. It's scoped to a single compilation; no
// state survives past the Interner going out of scope.
type Interner struct {
	arena map[string]string
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{arena: make(map[string]string)}
}

// Intern returns the InternedText for s, exact spelling preserved. Dedup is by exact string match only: two
// case-variants of the same word (e.g. "PRINT" and "Print") intern to distinct text, since each must round-trip as
// spec testable property 7 requires. Case-insensitive comparison is InternedText.Equal's job, not Intern's.
func (in *Interner) Intern(s string) InternedText {
	if canonical, ok := in.arena[s]; ok {
		return InternedText{s: canonical}
	}

	in.arena[s] = s
	return InternedText{s: s}
}

// String returns the original (case-preserved) text.
func (t InternedText) String() string {
	return t.s
}

// Equal reports case-insensitive equality with another InternedText.
func (t InternedText) Equal(o InternedText) bool {
	return strings.EqualFold(t.s, o.s)
}

// EqualString reports case-insensitive equality against a plain Go string.
func (t InternedText) EqualString(s string) bool {
	return strings.EqualFold(t.s, s)
}

// EndsWith tests the final byte of the text exactly (case-sensitive); used to read identifier sigils.
func (t InternedText) EndsWith(ch byte) bool {
	return len(t.s) > 0 && t.s[len(t.s)-1] == ch
}

// IsEmpty reports whether the interned text has zero length.
func (t InternedText) IsEmpty() bool {
	return len(t.s) == 0
}

// Len returns the byte length of the text.
func (t InternedText) Len() int {
	return len(t.s)
}
