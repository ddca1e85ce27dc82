package zeebasic

import "fmt"

// TokenType is an ID that correlates to the lexical class a Token belongs to.
type TokenType uint64

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	// TokenError denotes a lexing error. The token's Text holds the error detail.
	TokenError TokenType = iota
	// TokenEOF marks the end of the token stream. It may be requested repeatedly.
	TokenEOF
	// TokenEndOfLine marks a single newline. The ':' statement separator is lexed as TokenSymColon.
	TokenEndOfLine

	// TokenInteger holds a base-10 integer literal.
	TokenInteger
	// TokenReal holds a real literal, kept verbatim for direct C emission.
	TokenReal
	// TokenString holds a string literal with the surrounding quotes removed.
	TokenString

	// TokenUntypedName holds an identifier with no sigil suffix (default Integer).
	TokenUntypedName
	// TokenTypedName holds an identifier whose last character is a sigil.
	TokenTypedName

	tokenKeywordStart

	TokenKeyABS
	TokenKeyAND
	TokenKeyAS
	TokenKeyASC
	TokenKeyATN
	TokenKeyBINS
	TokenKeyBOOLEAN
	TokenKeyCALL
	TokenKeyCASE
	TokenKeyCHRS
	TokenKeyCOMMANDS
	TokenKeyCONST
	TokenKeyCOS
	TokenKeyDATA
	TokenKeyDATES
	TokenKeyDECLARE
	TokenKeyDIM
	TokenKeyDO
	TokenKeyELSE
	TokenKeyELSEIF
	TokenKeyEND
	TokenKeyENVIRONS
	TokenKeyEXIT
	TokenKeyEXP
	TokenKeyFALSE
	TokenKeyFIX
	TokenKeyFOR
	TokenKeyFUNCTION
	TokenKeyGOSUB
	TokenKeyHEXS
	TokenKeyIF
	TokenKeyINKEYS
	TokenKeyINPUT
	TokenKeyINSTR
	TokenKeyINT
	TokenKeyINTEGER
	TokenKeyIS
	TokenKeyLBOUND
	TokenKeyLCASES
	TokenKeyLEFTS
	TokenKeyLEN
	TokenKeyLOG
	TokenKeyLOOP
	TokenKeyLTRIMS
	TokenKeyMIDS
	TokenKeyMOD
	TokenKeyNEXT
	TokenKeyNOT
	TokenKeyOCTS
	TokenKeyOR
	TokenKeyPRINT
	TokenKeyRANDOMIZE
	TokenKeyREAD
	TokenKeyREAL
	TokenKeyREDIM
	TokenKeyRESTORE
	TokenKeyRETURN
	TokenKeyRIGHTS
	TokenKeyRND
	TokenKeyRTRIMS
	TokenKeySELECT
	TokenKeySHARED
	TokenKeySGN
	TokenKeySIN
	TokenKeySLEEP
	TokenKeySPACES
	TokenKeySQR
	TokenKeySTATIC
	TokenKeySTEP
	TokenKeySTRS
	TokenKeySTRING
	TokenKeySTRINGS
	TokenKeySUB
	TokenKeySWAP
	TokenKeyTAN
	TokenKeyTIMES
	TokenKeyTIMER
	TokenKeyTHEN
	TokenKeyTO
	TokenKeyTRUE
	TokenKeyTYPE
	TokenKeyUBOUND
	TokenKeyUCASES
	TokenKeyUNTIL
	TokenKeyVAL
	TokenKeyWHILE
	TokenKeyXOR

	tokenKeywordEnd

	// TokenSymAdd is '+'.
	TokenSymAdd
	// TokenSymSubtract is '-'.
	TokenSymSubtract
	// TokenSymMultiply is '*'.
	TokenSymMultiply
	// TokenSymDivide is '/'.
	TokenSymDivide
	// TokenSymIntDivide is '\'.
	TokenSymIntDivide
	// TokenSymLess is '<'.
	TokenSymLess
	// TokenSymLessEquals is '<='.
	TokenSymLessEquals
	// TokenSymGreater is '>'.
	TokenSymGreater
	// TokenSymGreaterEquals is '>='.
	TokenSymGreaterEquals
	// TokenSymEqual is '='.
	TokenSymEqual
	// TokenSymNotEqual is '<>'.
	TokenSymNotEqual
	// TokenSymColon is ':'.
	TokenSymColon
	// TokenSymComma is ','.
	TokenSymComma
	// TokenSymSemicolon is ';'.
	TokenSymSemicolon
	// TokenSymOpenParen is '('.
	TokenSymOpenParen
	// TokenSymCloseParen is ')'.
	TokenSymCloseParen
	// TokenSymPeriod is '.'.
	TokenSymPeriod
)

// keywordTable maps the case-folded spelling of each keyword to its token type. Looked up against the
// lower-cased text of every Name token before it's classified as a TypedName/UntypedName.
var keywordTable = map[string]TokenType{
	"abs": TokenKeyABS, "and": TokenKeyAND, "as": TokenKeyAS, "asc": TokenKeyASC, "atn": TokenKeyATN,
	"bin$": TokenKeyBINS, "boolean": TokenKeyBOOLEAN,
	"call": TokenKeyCALL, "case": TokenKeyCASE, "chr$": TokenKeyCHRS, "command$": TokenKeyCOMMANDS,
	"const": TokenKeyCONST, "cos": TokenKeyCOS,
	"data": TokenKeyDATA, "date$": TokenKeyDATES, "declare": TokenKeyDECLARE, "dim": TokenKeyDIM, "do": TokenKeyDO,
	"else": TokenKeyELSE, "elseif": TokenKeyELSEIF, "end": TokenKeyEND, "environ$": TokenKeyENVIRONS,
	"exit": TokenKeyEXIT, "exp": TokenKeyEXP,
	"false": TokenKeyFALSE, "fix": TokenKeyFIX, "for": TokenKeyFOR, "function": TokenKeyFUNCTION,
	"gosub": TokenKeyGOSUB,
	"hex$":  TokenKeyHEXS,
	"if": TokenKeyIF, "inkey$": TokenKeyINKEYS, "input": TokenKeyINPUT, "instr": TokenKeyINSTR,
	"int": TokenKeyINT, "integer": TokenKeyINTEGER, "is": TokenKeyIS,
	"lbound": TokenKeyLBOUND, "lcase$": TokenKeyLCASES, "left$": TokenKeyLEFTS, "len": TokenKeyLEN,
	"log": TokenKeyLOG, "loop": TokenKeyLOOP, "ltrim$": TokenKeyLTRIMS,
	"mid$": TokenKeyMIDS, "mod": TokenKeyMOD,
	"next": TokenKeyNEXT, "not": TokenKeyNOT,
	"oct$": TokenKeyOCTS, "or": TokenKeyOR,
	"print": TokenKeyPRINT,
	"randomize": TokenKeyRANDOMIZE, "read": TokenKeyREAD, "real": TokenKeyREAL, "redim": TokenKeyREDIM,
	"restore": TokenKeyRESTORE, "return": TokenKeyRETURN, "right$": TokenKeyRIGHTS, "rnd": TokenKeyRND,
	"rtrim$": TokenKeyRTRIMS,
	"select": TokenKeySELECT, "shared": TokenKeySHARED, "sgn": TokenKeySGN, "sin": TokenKeySIN,
	"sleep": TokenKeySLEEP, "space$": TokenKeySPACES, "sqr": TokenKeySQR, "static": TokenKeySTATIC,
	"step": TokenKeySTEP, "str$": TokenKeySTRS, "string": TokenKeySTRING, "string$": TokenKeySTRINGS,
	"sub": TokenKeySUB, "swap": TokenKeySWAP,
	"tan": TokenKeyTAN, "time$": TokenKeyTIMES, "timer": TokenKeyTIMER, "then": TokenKeyTHEN, "to": TokenKeyTO,
	"true": TokenKeyTRUE, "type": TokenKeyTYPE,
	"ubound": TokenKeyUBOUND, "ucase$": TokenKeyUCASES, "until": TokenKeyUNTIL,
	"val": TokenKeyVAL,
	"while": TokenKeyWHILE,
	"xor": TokenKeyXOR,
}

// operatorTable maps single- and multi-character symbol spellings to their token type.
var operatorTable = map[string]TokenType{
	"+": TokenSymAdd, "-": TokenSymSubtract, "*": TokenSymMultiply, "/": TokenSymDivide, `\`: TokenSymIntDivide,
	"<": TokenSymLess, "<=": TokenSymLessEquals, ">": TokenSymGreater, ">=": TokenSymGreaterEquals,
	"=": TokenSymEqual, "<>": TokenSymNotEqual,
	":": TokenSymColon, ",": TokenSymComma, ";": TokenSymSemicolon,
	"(": TokenSymOpenParen, ")": TokenSymCloseParen, ".": TokenSymPeriod,
}

// isKeyword reports whether t is one of the reserved keyword tokens.
func (t TokenType) isKeyword() bool {
	return t > tokenKeywordStart && t < tokenKeywordEnd
}

// Range records a (startLine, startCol)-(endLine, endCol) span for diagnostics. Lines and columns are 1-based.
type Range struct {
	StartLine, StartCol int
	EndLine, EndCol      int
}

// Add composes two ranges: the result spans from a's start to b's end.
func (a Range) Add(b Range) Range {
	return Range{
		StartLine: a.StartLine, StartCol: a.StartCol,
		EndLine: b.EndLine, EndCol: b.EndCol,
	}
}

// Widen advances the range's end column by one, covering one more character.
func (a Range) Widen() Range {
	a.EndCol++
	return a
}

// String renders the range as "line:col-line:col" for use in diagnostic messages, or as "line:col-col" when the
// range starts and ends on the same line.
func (a Range) String() string {
	if a.StartLine == a.EndLine {
		return fmt.Sprintf("%d:%d-%d", a.StartLine, a.StartCol, a.EndCol)
	}

	return fmt.Sprintf("%d:%d-%d:%d", a.StartLine, a.StartCol, a.EndLine, a.EndCol)
}

// Token is a single lexical unit: its type, source range, and interned text. For TokenString the text excludes the
// surrounding quotes; for TokenError the text holds the error message.
type Token struct {
	Typ   TokenType
	Range Range
	Text  InternedText
}

// isValid reports whether the token can be consumed by the parser, i.e. it isn't an error or the end marker.
func (t Token) isValid() bool {
	return t.Typ != TokenEOF && t.Typ != TokenError
}
