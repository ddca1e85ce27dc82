package zeebasic

import (
	"fmt"
	"strings"
)

// lexerState is a state in the lexer's explicit DFA. Given the lexer it may emit a Token and returns the next
// state to run; a nil state ends lexing. Modeled directly on the teacher's closures-as-states design.
type lexerState func(l *Lexer) lexerState

// Tokenizer is the interface the Parser consumes: a lazy, restartable-only-by-construction stream of Tokens
// produced on a goroutine and read off a channel.
type Tokenizer interface {
	Do()
	Get() Token
	Filename() string
}

// Lexer implements Tokenizer over a SourceReader. A Lexer must never be reused once exhausted; it is not
// thread-safe beyond the single producer/single consumer channel discipline of Do/Get.
type Lexer struct {
	filename string
	reader   *SourceReader
	interner *Interner
	output   chan Token

	startLine, startCol int
}

// NewLexer creates a Lexer reading from reader, interning lexeme text with in. filename is used only for
// diagnostics.
func NewLexer(filename string, reader *SourceReader, in *Interner) *Lexer {
	return &Lexer{
		filename: filename,
		reader:   reader,
		interner: in,
		output:   make(chan Token, 2),
	}
}

// Filename returns the name of the file this lexer is reading, for diagnostics.
func (l *Lexer) Filename() string {
	return l.filename
}

// Get fetches the next available token, blocking until Do has produced one. Once the stream is exhausted, every
// further call returns EndOfCode again.
func (l *Lexer) Get() Token {
	tok, ok := <-l.output
	if !ok {
		line, col := l.reader.Position()
		return Token{Typ: TokenEOF, Range: Range{StartLine: line, StartCol: col, EndLine: line, EndCol: col}, Text: l.interner.Intern("")}
	}

	return tok
}

// Do runs the DFA to completion (callers invoke `go l.Do()`), sending completed tokens to the output channel and
// closing it once EndOfCode has been emitted.
func (l *Lexer) Do() {
	for state := lexStart; state != nil; {
		state = state(l)
	}

	close(l.output)
}

// Run lexes the full stream synchronously, returning the accumulated tokens or the first lex error encountered.
func (l *Lexer) Run() ([]Token, error) {
	go l.Do()

	var toks []Token
	for {
		tok := l.Get()
		switch tok.Typ {
		case TokenEOF:
			return toks, nil
		case TokenError:
			return nil, &Diagnostic{Range: tok.Range, Message: tok.Text.String()}
		default:
			toks = append(toks, tok)
		}
	}
}

// mark records the current reader position as the start of the token about to be lexed.
func (l *Lexer) mark() {
	l.startLine, l.startCol = l.reader.Position()
}

// rangeHere builds the Range from the last mark() to the current reader position.
func (l *Lexer) rangeHere() Range {
	line, col := l.reader.Position()
	return Range{StartLine: l.startLine, StartCol: l.startCol, EndLine: line, EndCol: col}
}

// emit sends a Token of type t and text val, located at the range since the last mark(), and returns lexStart to
// continue lexing.
func (l *Lexer) emit(t TokenType, val string) lexerState {
	l.output <- Token{Typ: t, Range: l.rangeHere(), Text: l.interner.Intern(val)}
	return lexStart
}

// errorf emits a TokenError located at rng and ends the lexer.
func (l *Lexer) errorf(rng Range, format string, args ...interface{}) lexerState {
	l.output <- Token{Typ: TokenError, Range: rng, Text: l.interner.Intern(fmt.Sprintf(format, args...))}
	return lexEnd
}

// lexStart is the Begin state: dispatches on the next unconsumed byte to the state that owns it. Whitespace is
// consumed here directly rather than via a dedicated state function, matching the teacher's startState loop.
func lexStart(l *Lexer) lexerState {
	for {
		switch r := l.reader.Peek(); {
		case r == ' ' || r == '\t' || r == '\r':
			l.reader.Next()
			continue
		case r == sourceEOF:
			return lexEnd
		case r == '\n':
			l.mark()
			l.reader.Next()
			return l.emit(TokenEndOfLine, "\n")
		case r == '\'':
			return lexComment
		case r == '"':
			l.mark()
			return lexString
		case r >= '0' && r <= '9':
			l.mark()
			return lexInteger
		case r == '.':
			l.mark()
			return lexDotOrReal
		case isLetter(r):
			l.mark()
			return lexName
		default:
			l.mark()
			return lexSymbol
		}
	}
}

// lexComment consumes a "'" comment up to (but not including) the next newline or end of input. No token is
// emitted; comments are discarded.
func lexComment(l *Lexer) lexerState {
	l.reader.Next() // leading '

	for {
		switch r := l.reader.Peek(); r {
		case '\n', sourceEOF:
			return lexStart
		default:
			l.reader.Next()
		}
	}
}

// lexInteger builds a base-10 digit run, transitioning to a Real on the first '.'.
func lexInteger(l *Lexer) lexerState {
	var sb strings.Builder

	for {
		r := l.reader.Peek()
		if r >= '0' && r <= '9' {
			sb.WriteByte(l.reader.Next())
			continue
		}

		if r == '.' {
			sb.WriteByte(l.reader.Next())
			return lexRealFraction(l, &sb)
		}

		break
	}

	return l.emit(TokenInteger, sb.String())
}

// lexDotOrReal handles a '.' found in Begin position: consumes it, then either continues into a Real (if digits
// follow) or re-interprets the lone '.' as Sym_Period.
func lexDotOrReal(l *Lexer) lexerState {
	var sb strings.Builder
	sb.WriteByte(l.reader.Next()) // the '.'

	if r := l.reader.Peek(); r < '0' || r > '9' {
		return l.emit(TokenSymPeriod, sb.String())
	}

	return lexRealFraction(l, &sb)
}

// lexRealFraction consumes the fractional digit run following a '.' already written to sb, and emits a Real.
func lexRealFraction(l *Lexer, sb *strings.Builder) lexerState {
	for {
		r := l.reader.Peek()
		if r < '0' || r > '9' {
			break
		}

		sb.WriteByte(l.reader.Next())
	}

	return l.emit(TokenReal, sb.String())
}

// lexString consumes a double-quoted string literal, excluding the quotes from the emitted text. A newline before
// the closing quote is a lex error raised at the string's opening range.
func lexString(l *Lexer) lexerState {
	openRange := Range{StartLine: l.startLine, StartCol: l.startCol, EndLine: l.startLine, EndCol: l.startCol}.Widen()
	l.reader.Next() // opening "

	var sb strings.Builder
	for {
		r := l.reader.Peek()
		switch r {
		case '"':
			l.reader.Next()
			return l.emit(TokenString, sb.String())
		case '\n', sourceEOF:
			return l.errorf(openRange, "unterminated string literal")
		default:
			sb.WriteByte(l.reader.Next())
		}
	}
}

// sigils is the closed set of typed-name suffix characters.
const sigils = "?%!$"

// lexName consumes an ASCII-letter-initiated identifier (continuing with letters, digits, underscore), then an
// optional trailing sigil. A keyword match (case-insensitive, sigil included) wins over Typed/UntypedName
// classification. A second sigil character immediately following the first is a lex error.
func lexName(l *Lexer) lexerState {
	var sb strings.Builder

	for {
		r := l.reader.Peek()
		if isLetter(r) || isDigit(r) || r == '_' {
			sb.WriteByte(l.reader.Next())
			continue
		}

		break
	}

	typed := false
	if r := l.reader.Peek(); strings.IndexByte(sigils, r) >= 0 {
		sb.WriteByte(l.reader.Next())
		typed = true

		if r2 := l.reader.Peek(); strings.IndexByte(sigils, r2) >= 0 {
			l.mark()
			l.reader.Next()
			return l.errorf(l.rangeHere(), "duplicate sigil on identifier")
		}
	}

	text := sb.String()
	if tok, ok := keywordTable[toLowerASCII(text)]; ok {
		return l.emit(tok, text)
	}

	if typed {
		return l.emit(TokenTypedName, text)
	}

	return l.emit(TokenUntypedName, text)
}

// lexSymbol consumes a single- or multi-character operator/punctuation symbol. The two-character symbols <=, >=,
// <> are recognised by peeking one byte past a leading < or >; every other symbol is single-character.
func lexSymbol(l *Lexer) lexerState {
	r := l.reader.Next()

	if r == '<' || r == '>' {
		if next := l.reader.Peek(); (r == '<' && (next == '=' || next == '>')) || (r == '>' && next == '=') {
			l.reader.Next()
			two := string(r) + string(next)
			return l.emit(operatorTable[two], two)
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emit(tok, string(r))
	}

	return l.errorf(l.rangeHere(), "Unexpected character encountered")
}

// lexEnd emits the terminal EndOfCode token and ends the DFA.
func lexEnd(l *Lexer) lexerState {
	l.mark()
	l.output <- Token{Typ: TokenEOF, Range: l.rangeHere(), Text: l.interner.Intern("")}
	return nil
}

func isLetter(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r byte) bool {
	return r >= '0' && r <= '9'
}
