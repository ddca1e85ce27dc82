package zeebasic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufferedTokenizer is a hand-fed Tokenizer, mirroring the teacher's BufferedTokenizerMocker: it lets parser tests
// drive the Parser against a literal token sequence instead of a real Lexer.
type bufferedTokenizer struct {
	toks []Token
	pos  int
}

func newBufferedTokenizer(toks []Token) *bufferedTokenizer {
	return &bufferedTokenizer{toks: toks}
}

func (b *bufferedTokenizer) Do() {}

func (b *bufferedTokenizer) Get() Token {
	if b.pos >= len(b.toks) {
		return Token{Typ: TokenEOF}
	}

	tok := b.toks[b.pos]
	b.pos++

	return tok
}

func (b *bufferedTokenizer) Filename() string { return "mock" }

func TestParserAgainstMockTokenizer(t *testing.T) {
	in := NewInterner()
	toks := []Token{
		{Typ: TokenKeyPRINT, Text: in.Intern("PRINT")},
		{Typ: TokenInteger, Text: in.Intern("1")},
		{Typ: TokenEndOfLine, Text: in.Intern("\n")},
	}

	prog, err := NewParser(newBufferedTokenizer(toks)).Parse()
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	print, ok := prog.Statements[0].(*Print)
	require.True(t, ok)

	lit, ok := print.Value.(*IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

// parseExprSrc parses src as a standalone expression, bypassing statement grammar so precedence tests can feed
// bare "x OP y OP z" strings.
func parseExprSrc(t *testing.T, src string) Expr {
	t.Helper()

	reader := NewSourceReader(strings.NewReader(src))
	l := NewLexer("test.bas", reader, NewInterner())
	p := NewParser(l)

	go p.lexer.Do()

	expr, err := p.parseExpr(1)
	require.NoError(t, err)

	return expr
}

func asBinary(t *testing.T, e Expr) *BinaryExpr {
	t.Helper()

	b, ok := e.(*BinaryExpr)
	require.Truef(t, ok, "expected *BinaryExpr, got %T", e)

	return b
}

// TestParserPrecedence checks spec testable property 8: for operator pair (a, b) with prec(a) < prec(b),
// "x a y b z" parses as Binary(a, x, Binary(b, y, z)); otherwise as Binary(b, Binary(a, x, y), z).
func TestParserPrecedence(t *testing.T) {
	precByOp := make(map[BinaryOp]int, len(binaryOpTable))
	for _, info := range binaryOpTable {
		precByOp[info.op] = info.prec
	}

	type spelling struct {
		src string
		op  BinaryOp
	}

	pairs := [][2]spelling{
		{{"OR", BinaryOr}, {"XOR", BinaryXor}},
		{{"XOR", BinaryXor}, {"OR", BinaryOr}},
		{{"AND", BinaryAnd}, {"+", BinaryAdd}},
		{{"+", BinaryAdd}, {"AND", BinaryAnd}},
		{{"+", BinaryAdd}, {"*", BinaryMultiply}},
		{{"*", BinaryMultiply}, {"+", BinaryAdd}},
		{{"=", BinaryEqual}, {"<", BinaryLess}},
		{{"<", BinaryLess}, {"=", BinaryEqual}},
		{{"-", BinarySubtract}, {"+", BinaryAdd}},
		{{"MOD", BinaryMod}, {"OR", BinaryOr}},
		{{"OR", BinaryOr}, {"MOD", BinaryMod}},
		{{`\`, BinaryIntDivide}, {"*", BinaryMultiply}},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]

		t.Run(fmt.Sprintf("%s_then_%s", a.src, b.src), func(t *testing.T) {
			// A comparison yields Boolean and Integer/Boolean mixing is rejected, so chained comparisons use
			// Boolean operands to stay well-typed.
			operands := [3]string{"x", "y", "z"}
			if isComparison(a.op) && isComparison(b.op) {
				operands = [3]string{"x?", "y?", "z?"}
			}

			src := fmt.Sprintf("%s %s %s %s %s", operands[0], a.src, operands[1], b.src, operands[2])
			top := asBinary(t, parseExprSrc(t, src))

			if precByOp[a.op] < precByOp[b.op] {
				assert.Equal(t, a.op, top.Op)
				right := asBinary(t, top.Rhs)
				assert.Equal(t, b.op, right.Op)
			} else {
				assert.Equal(t, b.op, top.Op)
				left := asBinary(t, top.Lhs)
				assert.Equal(t, a.op, left.Op)
			}
		})
	}
}

// ignoreRanges drops Range fields from a go-cmp diff so scenario tests check AST shape without pinning exact
// source columns.
var ignoreRanges = cmpopts.IgnoreTypes(Range{})

func parseSrc(t *testing.T, src string) *Program {
	t.Helper()

	reader := NewSourceReader(strings.NewReader(src))
	l := NewLexer("test.bas", reader, NewInterner())

	prog, err := NewParser(l).Parse()
	require.NoError(t, err)

	return prog
}

// TestParserScenario1 is spec §8 Scenario 1: PRINT 1 + 2 * 3 respects operator precedence.
func TestParserScenario1(t *testing.T) {
	prog := parseSrc(t, "PRINT 1 + 2 * 3\n")
	require.Len(t, prog.Statements, 1)

	expect := []Stmt{
		&Print{Value: &BinaryExpr{
			exprBase: exprBase{Type: Type{Base: Integer}},
			Op:       BinaryAdd,
			Lhs:      &IntegerLiteral{exprBase: exprBase{Type: Type{Base: Integer}}, Value: 1},
			Rhs: &BinaryExpr{
				exprBase: exprBase{Type: Type{Base: Integer}},
				Op:       BinaryMultiply,
				Lhs:      &IntegerLiteral{exprBase: exprBase{Type: Type{Base: Integer}}, Value: 2},
				Rhs:      &IntegerLiteral{exprBase: exprBase{Type: Type{Base: Integer}}, Value: 3},
			},
		}},
	}

	if diff := cmp.Diff(expect, prog.Statements, ignoreRanges, cmp.AllowUnexported(BinaryExpr{}, IntegerLiteral{})); diff != "" {
		t.Errorf("unexpected AST shape (-want +got):\n%s", diff)
	}
}

// TestParserScenario3 is spec §8 Scenario 3: PRINT 1 + 2.5 promotes the integer operand to Real via an implicit
// Cast.
func TestParserScenario3(t *testing.T) {
	prog := parseSrc(t, "PRINT 1 + 2.5\n")
	require.Len(t, prog.Statements, 1)

	print, ok := prog.Statements[0].(*Print)
	require.True(t, ok)

	bin, ok := print.Value.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, Real, bin.ExprType().Base)

	cast, ok := bin.Lhs.(*Cast)
	require.True(t, ok, "expected LHS to be wrapped in a Cast, got %T", bin.Lhs)
	assert.Equal(t, Real, cast.ExprType().Base)

	intLit, ok := cast.Operand.(*IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(1), intLit.Value)

	realLit, ok := bin.Rhs.(*RealLiteral)
	require.True(t, ok)
	assert.Equal(t, "2.5", realLit.Text.String())
}

// TestParserScenario4 is spec §8 Scenario 4: b? = 1 is a disallowed implicit cast, raised at the '=' range.
func TestParserScenario4(t *testing.T) {
	reader := NewSourceReader(strings.NewReader("b? = 1\n"))
	l := NewLexer("test.bas", reader, NewInterner())

	_, err := NewParser(l).Parse()
	require.Error(t, err)

	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Contains(t, diag.Message, "cast")
}

// TestParserScenario5 is spec §8 Scenario 5: PRINT 1 < 2 types as Boolean.
func TestParserScenario5(t *testing.T) {
	prog := parseSrc(t, "PRINT 1 < 2\n")
	print := prog.Statements[0].(*Print)
	assert.Equal(t, Boolean, print.Value.ExprType().Base)
}

// TestParserSigilMakesDistinctIdentifiers checks that the sigil is part of a name: x and x$ are two Symbols, each
// typed by its own sigil.
func TestParserSigilMakesDistinctIdentifiers(t *testing.T) {
	prog := parseSrc(t, "x = 1\nx$ = \"hi\"\n")

	syms := prog.Symbols.InOrder()
	require.Len(t, syms, 2)
	assert.Equal(t, Integer, syms[0].Type.Base)
	assert.Equal(t, String, syms[1].Type.Base)
}

func TestParserAssignmentImplicitCast(t *testing.T) {
	prog := parseSrc(t, "i% = 1.5\n")
	assign, ok := prog.Statements[0].(*Assignment)
	require.True(t, ok)

	cast, ok := assign.Value.(*Cast)
	require.True(t, ok, "expected assignment RHS to be wrapped in a Cast, got %T", assign.Value)
	assert.Equal(t, Integer, cast.ExprType().Base)

	_, ok = cast.Operand.(*RealLiteral)
	assert.True(t, ok)
}

func TestParserStrCallArity(t *testing.T) {
	cases := []string{
		"PRINT STR$\n",
		"PRINT STR$()\n",
		"PRINT STR$(1, 2)\n",
		`PRINT STR$("x")` + "\n",
	}

	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			reader := NewSourceReader(strings.NewReader(src))
			l := NewLexer("test.bas", reader, NewInterner())

			_, err := NewParser(l).Parse()
			assert.Error(t, err)
		})
	}
}

func TestParserParentheses(t *testing.T) {
	prog := parseSrc(t, "PRINT (1 + 2) * 3\n")
	print := prog.Statements[0].(*Print)

	top := asBinary(t, print.Value)
	assert.Equal(t, BinaryMultiply, top.Op)

	left := asBinary(t, top.Lhs)
	assert.Equal(t, BinaryAdd, left.Op)
}
