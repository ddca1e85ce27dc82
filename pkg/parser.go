package zeebasic

import "strconv"

// binOpInfo pairs a binary operator with its precedence for the climbing parser below.
type binOpInfo struct {
	prec int
	op   BinaryOp
}

// binaryOpTable is the precedence table of spec §4.2. Higher binds tighter; all operators are left-associative.
var binaryOpTable = map[TokenType]binOpInfo{
	TokenKeyOR:            {1, BinaryOr},
	TokenKeyXOR:           {2, BinaryXor},
	TokenKeyAND:           {3, BinaryAnd},
	TokenSymEqual:         {4, BinaryEqual},
	TokenSymNotEqual:      {4, BinaryNotEqual},
	TokenSymLess:          {5, BinaryLess},
	TokenSymLessEquals:    {5, BinaryLessEquals},
	TokenSymGreater:       {5, BinaryGreater},
	TokenSymGreaterEquals: {5, BinaryGreaterEquals},
	TokenSymAdd:           {7, BinaryAdd},
	TokenSymSubtract:      {7, BinarySubtract},
	TokenSymMultiply:      {8, BinaryMultiply},
	TokenSymDivide:        {8, BinaryDivide},
	TokenSymIntDivide:     {8, BinaryIntDivide},
	TokenKeyMOD:           {8, BinaryMod},
}

// Parser consumes tokens off a Tokenizer and builds a Program. It owns a one-token lookahead buffer over the
// lexer, the same buffered-peek/next discipline the teacher's Parser uses over its Tokenizer. Semantic resolution
// (spec §4.3) happens inline as each node is built, so every Expr this parser returns already carries its
// resolved Type.
type Parser struct {
	filename string
	lexer    Tokenizer
	symbols  *SymbolTable

	buf *Token
}

// NewParser creates a Parser reading from lexer. The returned Program's symbol table starts empty.
func NewParser(lexer Tokenizer) *Parser {
	return &Parser{
		filename: lexer.Filename(),
		lexer:    lexer,
		symbols:  NewSymbolTable(),
	}
}

// Parse runs the lexer on a goroutine and consumes its output to build a complete Program, or returns the first
// Diagnostic raised by the lexer or the parser.
func (p *Parser) Parse() (*Program, error) {
	go p.lexer.Do()

	prog := &Program{Symbols: p.symbols}

	for {
		for p.peek().Typ == TokenEndOfLine || p.peek().Typ == TokenSymColon {
			p.next()
		}

		tok := p.peek()
		if tok.Typ == TokenEOF {
			break
		}

		if tok.Typ == TokenError {
			return nil, &Diagnostic{Range: tok.Range, Message: tok.Text.String()}
		}

		stmt, err := p.parseStatement()
		if err != nil {
			// A lex error sitting in the lookahead was raised before the parse error it provoked, so report it.
			if p.buf != nil && p.buf.Typ == TokenError {
				return nil, &Diagnostic{Range: p.buf.Range, Message: p.buf.Text.String()}
			}

			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

// peek returns the next token without consuming it, buffering it if necessary.
func (p *Parser) peek() Token {
	if p.buf == nil {
		t := p.lexer.Get()
		p.buf = &t
	}

	return *p.buf
}

// next consumes and returns the next token.
func (p *Parser) next() Token {
	t := p.peek()
	p.buf = nil

	return t
}

// atStatementEnd reports whether the upcoming token can terminate a statement: EndOfLine, ':', or end of input.
func (p *Parser) atStatementEnd() bool {
	switch p.peek().Typ {
	case TokenEndOfLine, TokenSymColon, TokenEOF:
		return true
	default:
		return false
	}
}

// expectStatementEnd consumes the statement terminator (EndOfLine or ':'), tolerating end of input for the final
// statement in a file with no trailing newline.
func (p *Parser) expectStatementEnd() (Range, error) {
	tok := p.peek()
	switch tok.Typ {
	case TokenEndOfLine, TokenSymColon:
		p.next()
		return tok.Range, nil
	case TokenEOF:
		return tok.Range, nil
	default:
		return Range{}, errorf(tok.Range, "expected end of line")
	}
}

// parseStatement dispatches on the lookahead token per spec §4.2's grammar: 'PRINT' [Expression] EndOfLine,
// or Name '=' Expression EndOfLine.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Typ {
	case TokenKeyPRINT:
		return p.parsePrint()
	case TokenUntypedName, TokenTypedName:
		return p.parseAssignment()
	default:
		if tok.Typ.isKeyword() {
			return nil, errorf(tok.Range, "%q is reserved but not supported by this compiler", tok.Text.String())
		}

		return nil, errorf(tok.Range, "expected statement, found %q", tok.Text.String())
	}
}

// parsePrint parses 'PRINT' [Expression] EndOfLine.
func (p *Parser) parsePrint() (Stmt, error) {
	start := p.next().Range // PRINT

	if p.atStatementEnd() {
		end, err := p.expectStatementEnd()
		if err != nil {
			return nil, err
		}

		return &Print{Value: nil, Range: start.Add(end)}, nil
	}

	value, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}

	end, err := p.expectStatementEnd()
	if err != nil {
		return nil, err
	}

	return &Print{Value: value, Range: start.Add(end)}, nil
}

// parseAssignment parses Name '=' Expression EndOfLine, declaring or resolving the LHS symbol and inserting an
// implicit Cast around the RHS if spec §4.3's assignment rule allows one.
func (p *Parser) parseAssignment() (Stmt, error) {
	nameTok := p.next()

	sym, err := p.resolveIdentifier(nameTok)
	if err != nil {
		return nil, err
	}

	eq := p.peek()
	if eq.Typ != TokenSymEqual {
		return nil, errorf(eq.Range, "expected '='")
	}
	p.next()

	value, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}

	plan, err := resolveAssign(sym.Type.Base, value.ExprType().Base)
	if err != nil {
		return nil, errorf(eq.Range, "%s", err)
	}

	if plan.needed {
		value = &Cast{exprBase: exprBase{Type: Type{Base: plan.toBase}, Range: value.ExprRange()}, Operand: value}
	}

	end, err := p.expectStatementEnd()
	if err != nil {
		return nil, err
	}

	return &Assignment{Symbol: sym, Value: value, Range: nameTok.Range.Add(end)}, nil
}

// typeForSigil implements spec §3's sigil rule: $ -> String, ? -> Boolean, ! -> Real, % -> Integer, otherwise
// Integer.
func typeForSigil(text string) BaseType {
	if len(text) == 0 {
		return Integer
	}

	switch text[len(text)-1] {
	case '$':
		return String
	case '?':
		return Boolean
	case '!':
		return Real
	case '%':
		return Integer
	default:
		return Integer
	}
}

// resolveIdentifier looks up or declares (on first mention) the Symbol for tok, per spec §3: a Symbol's type is
// fixed at creation from its sigil. The sigil is part of the name, so x and x$ resolve to two distinct Symbols.
func (p *Parser) resolveIdentifier(tok Token) (*Symbol, error) {
	t := Type{Base: typeForSigil(tok.Text.String())}

	sym, ok := p.symbols.Declare(tok.Text, t, tok.Range)
	if !ok {
		return nil, errorf(tok.Range, "%q already declared with a different type", tok.Text.String())
	}

	return sym, nil
}

// parseExpr implements precedence climbing over binaryOpTable: newPrec > prec strictly, so equal-precedence
// operators are combined left-associatively by the loop rather than by recursion.
func (p *Parser) parseExpr(minPrec int) (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		info, ok := binaryOpTable[p.peek().Typ]
		if !ok || info.prec < minPrec {
			return lhs, nil
		}

		opTok := p.next()

		rhs, err := p.parseExpr(info.prec + 1)
		if err != nil {
			return nil, err
		}

		lhs, err = p.makeBinary(info.op, lhs, rhs, opTok.Range)
		if err != nil {
			return nil, err
		}
	}
}

// makeBinary applies spec §4.3's binary operator table to lhs/rhs, inserting an implicit Cast to Real on whichever
// side the table calls for, then builds the typed BinaryExpr node.
func (p *Parser) makeBinary(op BinaryOp, lhs, rhs Expr, opRange Range) (Expr, error) {
	plan, err := resolveBinary(lhs.ExprType().Base, rhs.ExprType().Base, op)
	if err != nil {
		return nil, errorf(opRange, "%s", err)
	}

	if plan.castLhsToReal {
		lhs = &Cast{exprBase: exprBase{Type: Type{Base: Real}, Range: lhs.ExprRange()}, Operand: lhs}
	}

	if plan.castRhsToReal {
		rhs = &Cast{exprBase: exprBase{Type: Type{Base: Real}, Range: rhs.ExprRange()}, Operand: rhs}
	}

	return &BinaryExpr{
		exprBase: exprBase{Type: Type{Base: plan.result}, Range: lhs.ExprRange().Add(rhs.ExprRange())},
		Op:       op,
		Lhs:      lhs,
		Rhs:      rhs,
	}, nil
}

// parseUnary handles the two unary forms of spec §4.2/§4.3 (prec 10), which bind tighter than every binary
// operator, and otherwise falls through to a primary expression.
func (p *Parser) parseUnary() (Expr, error) {
	tok := p.peek()

	switch tok.Typ {
	case TokenSymSubtract:
		p.next()
		return p.makeUnary(UnaryNegate, tok.Range)
	case TokenKeyNOT:
		p.next()
		return p.makeUnary(UnaryNot, tok.Range)
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) makeUnary(op UnaryOp, opRange Range) (Expr, error) {
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	resultBase, err := resolveUnary(op, operand.ExprType().Base)
	if err != nil {
		return nil, errorf(opRange, "%s", err)
	}

	return &UnaryExpr{
		exprBase: exprBase{Type: Type{Base: resultBase}, Range: opRange.Add(operand.ExprRange())},
		Op:       op,
		Operand:  operand,
	}, nil
}

// parsePrimary parses literals, identifiers, the STR$ built-in call, and parenthesized sub-expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Typ {
	case TokenSymOpenParen:
		return p.parseParenthesized()
	case TokenKeyTRUE, TokenKeyFALSE:
		p.next()
		return &BooleanLiteral{
			exprBase: exprBase{Type: Type{Base: Boolean}, Range: tok.Range},
			Value:    tok.Typ == TokenKeyTRUE,
		}, nil
	case TokenInteger:
		p.next()
		v, err := strconv.ParseInt(tok.Text.String(), 10, 64)
		if err != nil {
			return nil, errorf(tok.Range, "integer literal out of range: %s", tok.Text.String())
		}

		return &IntegerLiteral{exprBase: exprBase{Type: Type{Base: Integer}, Range: tok.Range}, Value: v}, nil
	case TokenReal:
		p.next()
		return &RealLiteral{exprBase: exprBase{Type: Type{Base: Real}, Range: tok.Range}, Text: tok.Text}, nil
	case TokenString:
		p.next()
		return &StringLiteral{exprBase: exprBase{Type: Type{Base: String}, Range: tok.Range}, Text: tok.Text}, nil
	case TokenUntypedName, TokenTypedName:
		p.next()
		sym, err := p.resolveIdentifier(tok)
		if err != nil {
			return nil, err
		}

		return &Identifier{exprBase: exprBase{Type: sym.Type, Range: tok.Range}, Symbol: sym}, nil
	case TokenKeySTRS:
		return p.parseBuiltinCall(tok)
	default:
		return nil, errorf(tok.Range, "expected expression, found %q", tok.Text.String())
	}
}

func (p *Parser) parseParenthesized() (Expr, error) {
	p.next() // (

	inner, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}

	closeTok := p.peek()
	if closeTok.Typ != TokenSymCloseParen {
		return nil, errorf(closeTok.Range, "expected closing parenthesis")
	}
	p.next()

	return inner, nil
}

// parseBuiltinCall parses STR$ [ '(' [Expression {',' Expression}] ')' ]. A bare STR$ with no parenthesis list
// parses as a zero-argument call, which resolveStrCall below will reject for wrong arity.
func (p *Parser) parseBuiltinCall(tok Token) (Expr, error) {
	p.next() // STR$

	end := tok.Range
	var args []Expr

	if p.peek().Typ == TokenSymOpenParen {
		p.next()

		if p.peek().Typ != TokenSymCloseParen {
			for {
				arg, err := p.parseExpr(1)
				if err != nil {
					return nil, err
				}

				args = append(args, arg)

				if p.peek().Typ != TokenSymComma {
					break
				}
				p.next()
			}
		}

		closeTok := p.peek()
		if closeTok.Typ != TokenSymCloseParen {
			return nil, errorf(closeTok.Range, "expected closing parenthesis")
		}
		p.next()
		end = closeTok.Range
	}

	if err := resolveStrCall(args); err != nil {
		return nil, errorf(tok.Range.Add(end), "%s", err)
	}

	return &FunctionCall{
		exprBase: exprBase{Type: Type{Base: String}, Range: tok.Range.Add(end)},
		Name:     tok.Text,
		Args:     args,
	}, nil
}
