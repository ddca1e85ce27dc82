package zeebasic

import (
	"fmt"
	"io"
	"strings"
)

// slotKind distinguishes the two shapes a ValueSlot can take on the emitter's evaluation stack.
type slotKind int

const (
	slotTemporary slotKind = iota
	slotLocal
)

// ValueSlot is what emitting an Expression pushes: either a freshly declared temporary (Temporary{type, id}) or a
// reference to an already-declared local (Local{Symbol}). Modeled directly on spec §9's re-architecture of the
// source's std::vector<VariableIndex> LIFO stack, and grounded on the teacher's ir.go pattern of every node-emit
// function returning the value it produced alongside the instructions that computed it.
type ValueSlot struct {
	Kind   slotKind
	Base   BaseType
	Temp   int
	Symbol *Symbol
}

// cName renders the slot's C identifier: a mangled local name or a t_<id> temporary name.
func (s ValueSlot) cName() string {
	if s.Kind == slotLocal {
		return mangle(s.Symbol)
	}

	return fmt.Sprintf("t_%d", s.Temp)
}

// mangle implements spec §4.4's name mangling: X$/X?/X!/X% become v_X_s/v_X_b/v_X_r/v_X_i, an untyped name becomes
// v_X. The alphabetic portion is emitted verbatim, case preserved.
func mangle(sym *Symbol) string {
	text := sym.Name.String()
	if len(text) == 0 {
		return "v_"
	}

	switch text[len(text)-1] {
	case '$':
		return "v_" + text[:len(text)-1] + "_s"
	case '?':
		return "v_" + text[:len(text)-1] + "_b"
	case '!':
		return "v_" + text[:len(text)-1] + "_r"
	case '%':
		return "v_" + text[:len(text)-1] + "_i"
	default:
		return "v_" + text
	}
}

// cTypeFor renders the C type backing a BaseType.
func cTypeFor(base BaseType) string {
	switch base {
	case Boolean:
		return "zrt_Bool"
	case Integer:
		return "zrt_Int"
	case Real:
		return "zrt_Real"
	case String:
		return "zrt_String*"
	default:
		return "void"
	}
}

// declLine renders a symbol's local declaration, each type defaulting per spec §4.4.
func declLine(sym *Symbol) string {
	name := mangle(sym)

	switch sym.Type.Base {
	case Boolean:
		return fmt.Sprintf("zrt_Bool %s = 0;", name)
	case Integer:
		return fmt.Sprintf("zrt_Int %s = 0;", name)
	case Real:
		return fmt.Sprintf("zrt_Real %s = 0.0;", name)
	case String:
		return fmt.Sprintf("zrt_String* %s = zrt_str_empty();", name)
	default:
		return fmt.Sprintf("/* %s has unresolved type */", name)
	}
}

// printlnFn maps a printed expression's base type to the runtime entry point that prints it.
var printlnFn = map[BaseType]string{
	Boolean: "zrt_println_bool",
	Integer: "zrt_println_int",
	Real:    "zrt_println_real",
	String:  "zrt_println_str",
}

// binaryCOp maps the non-bitwise, non-division binary operators directly to their C spelling. Division, integer
// division, string '+', and the three bitwise operators are handled separately in emitBinary because their C form
// depends on operand type, not just the operator.
var binaryCOp = map[BinaryOp]string{
	BinaryAdd:           "+",
	BinarySubtract:      "-",
	BinaryMultiply:      "*",
	BinaryMod:           "%",
	BinaryEqual:         "==",
	BinaryNotEqual:      "!=",
	BinaryLess:          "<",
	BinaryLessEquals:    "<=",
	BinaryGreater:       ">",
	BinaryGreaterEquals: ">=",
}

// emitter holds the state threaded through one Emit call: the output sink and the monotonically increasing
// temporary counter. It carries no other mutable state; the evaluation "stack" of spec §9 is realized as ordinary
// Go call-stack recursion in emitExpr, with each level returning the ValueSlot it pushed.
type emitter struct {
	w    io.Writer
	temp int
}

// Emit writes prog as a complete C translation unit to w, per spec §4.4's output skeleton. Output is deterministic
// byte-for-byte for a given Program.
func Emit(prog *Program, w io.Writer) error {
	e := &emitter{w: w}
	return e.run(prog)
}

func (e *emitter) run(prog *Program) error {
	lines := []string{
		"#include <ZeeBasic/Runtime/ZeeRuntime.h>",
		"#include <math.h>",
		"",
		"void program(void)",
		"{",
	}
	for _, l := range lines {
		if err := e.writeLine(0, l); err != nil {
			return err
		}
	}

	symbols := prog.Symbols.InOrder()
	for _, sym := range symbols {
		if err := e.writeLine(1, declLine(sym)); err != nil {
			return err
		}
	}

	for _, stmt := range prog.Statements {
		if err := e.emitStmt(stmt); err != nil {
			return err
		}
	}

	for i := len(symbols) - 1; i >= 0; i-- {
		sym := symbols[i]
		if sym.Type.Base != String {
			continue
		}

		if err := e.writeLine(1, fmt.Sprintf("zrt_str_del(%s);", mangle(sym))); err != nil {
			return err
		}
	}

	tail := []string{
		"}",
		"",
		"int main(int argc, char* argv[])",
		"{",
	}
	for _, l := range tail {
		if err := e.writeLine(0, l); err != nil {
			return err
		}
	}

	for _, l := range []string{"zrt_init(argc, argv);", "program();", "return 0;"} {
		if err := e.writeLine(1, l); err != nil {
			return err
		}
	}

	return e.writeLine(0, "}")
}

// writeLine writes text indented by level*4 spaces, followed by a newline.
func (e *emitter) writeLine(level int, text string) error {
	_, err := fmt.Fprintf(e.w, "%s%s\n", strings.Repeat("    ", level), text)
	return err
}

// destroy emits zrt_str_del for a string Temporary; Local slots and non-string Temporaries need no destruction.
func (e *emitter) destroy(slot ValueSlot) error {
	if slot.Kind != slotTemporary || slot.Base != String {
		return nil
	}

	return e.writeLine(1, fmt.Sprintf("zrt_str_del(%s);", slot.cName()))
}

func (e *emitter) nextTemp() int {
	e.temp++
	return e.temp
}

func (e *emitter) emitStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *Assignment:
		return e.emitAssignment(s)
	case *Print:
		return e.emitPrint(s)
	default:
		return fmt.Errorf("emitter: unknown statement type %T", stmt)
	}
}

func (e *emitter) emitAssignment(a *Assignment) error {
	slot, err := e.emitExpr(a.Value)
	if err != nil {
		return err
	}

	target := mangle(a.Symbol)
	if a.Symbol.Type.Base == String {
		if err := e.writeLine(1, fmt.Sprintf("zrt_str_copy(%s, %s);", target, slot.cName())); err != nil {
			return err
		}
	} else if err := e.writeLine(1, fmt.Sprintf("%s = %s;", target, slot.cName())); err != nil {
		return err
	}

	return e.destroy(slot)
}

func (e *emitter) emitPrint(p *Print) error {
	if p.Value == nil {
		return e.writeLine(1, "zrt_println();")
	}

	slot, err := e.emitExpr(p.Value)
	if err != nil {
		return err
	}

	fn, ok := printlnFn[slot.Base]
	if !ok {
		return fmt.Errorf("emitter: no println entry point for %s", slot.Base)
	}

	if err := e.writeLine(1, fmt.Sprintf("%s(%s);", fn, slot.cName())); err != nil {
		return err
	}

	return e.destroy(slot)
}

// emitExpr emits the code for expr and returns the ValueSlot it pushed. Every case writes exactly one declaration
// line (literals, casts, unary/binary results, calls) or none (Identifier, which only references an existing
// local).
func (e *emitter) emitExpr(expr Expr) (ValueSlot, error) {
	switch ex := expr.(type) {
	case *IntegerLiteral:
		return e.emitIntegerLiteral(ex)
	case *BooleanLiteral:
		return e.emitBooleanLiteral(ex)
	case *RealLiteral:
		return e.emitRealLiteral(ex)
	case *StringLiteral:
		return e.emitStringLiteral(ex)
	case *Identifier:
		return ValueSlot{Kind: slotLocal, Base: ex.Symbol.Type.Base, Symbol: ex.Symbol}, nil
	case *Cast:
		return e.emitCast(ex)
	case *UnaryExpr:
		return e.emitUnary(ex)
	case *BinaryExpr:
		return e.emitBinary(ex)
	case *FunctionCall:
		return e.emitCall(ex)
	default:
		return ValueSlot{}, fmt.Errorf("emitter: unknown expression type %T", expr)
	}
}

func (e *emitter) emitIntegerLiteral(lit *IntegerLiteral) (ValueSlot, error) {
	id := e.nextTemp()
	if err := e.writeLine(1, fmt.Sprintf("zrt_Int t_%d = %d;", id, lit.Value)); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: Integer, Temp: id}, nil
}

func (e *emitter) emitBooleanLiteral(lit *BooleanLiteral) (ValueSlot, error) {
	id := e.nextTemp()
	v := 0
	if lit.Value {
		v = 1
	}

	if err := e.writeLine(1, fmt.Sprintf("zrt_Bool t_%d = %d;", id, v)); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: Boolean, Temp: id}, nil
}

func (e *emitter) emitRealLiteral(lit *RealLiteral) (ValueSlot, error) {
	id := e.nextTemp()
	if err := e.writeLine(1, fmt.Sprintf("zrt_Real t_%d = %s;", id, lit.Text.String())); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: Real, Temp: id}, nil
}

// emitStringLiteral writes the literal text straight into a double-quoted C string. No escaping is performed: the
// lexer rejects newlines inside strings and the grammar has no escape sequences, so the subset's strings are
// always safe to embed verbatim, per spec §4.4.
func (e *emitter) emitStringLiteral(lit *StringLiteral) (ValueSlot, error) {
	id := e.nextTemp()
	if err := e.writeLine(1, fmt.Sprintf("zrt_String* t_%d = zrt_str_new(\"%s\");", id, lit.Text.String())); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: String, Temp: id}, nil
}

func (e *emitter) emitCast(c *Cast) (ValueSlot, error) {
	operand, err := e.emitExpr(c.Operand)
	if err != nil {
		return ValueSlot{}, err
	}

	toBase := c.ExprType().Base
	id := e.nextTemp()

	var line string
	switch {
	case operand.Base == Boolean && toBase == Integer:
		line = fmt.Sprintf("zrt_Int t_%d = %s == 0 ? 0 : 1;", id, operand.cName())
	case operand.Base == Real && toBase == Integer:
		line = fmt.Sprintf("zrt_Int t_%d = (zrt_Int)%s;", id, operand.cName())
	case operand.Base == Integer && toBase == Real:
		line = fmt.Sprintf("zrt_Real t_%d = (zrt_Real)%s;", id, operand.cName())
	default:
		return ValueSlot{}, fmt.Errorf("emitter: unsupported cast from %s to %s", operand.Base, toBase)
	}

	if err := e.writeLine(1, line); err != nil {
		return ValueSlot{}, err
	}

	if err := e.destroy(operand); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: toBase, Temp: id}, nil
}

func (e *emitter) emitUnary(u *UnaryExpr) (ValueSlot, error) {
	operand, err := e.emitExpr(u.Operand)
	if err != nil {
		return ValueSlot{}, err
	}

	var cOp string
	switch {
	case u.Op == UnaryNegate:
		cOp = "-"
	case u.Op == UnaryNot && operand.Base == Boolean:
		cOp = "!"
	case u.Op == UnaryNot && operand.Base == Integer:
		cOp = "~"
	default:
		return ValueSlot{}, fmt.Errorf("emitter: unsupported unary operator on %s", operand.Base)
	}

	id := e.nextTemp()
	if err := e.writeLine(1, fmt.Sprintf("%s t_%d = %s%s;", cTypeFor(operand.Base), id, cOp, operand.cName())); err != nil {
		return ValueSlot{}, err
	}

	if err := e.destroy(operand); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: operand.Base, Temp: id}, nil
}

// emitBinary emits lhs then rhs (left-to-right), and destroys rhs before lhs: the rhs slot was pushed last, so it
// is popped first, per spec §5's ordering guarantee 3.
func (e *emitter) emitBinary(b *BinaryExpr) (ValueSlot, error) {
	lhs, err := e.emitExpr(b.Lhs)
	if err != nil {
		return ValueSlot{}, err
	}

	rhs, err := e.emitExpr(b.Rhs)
	if err != nil {
		return ValueSlot{}, err
	}

	resultBase := b.ExprType().Base
	id := e.nextTemp()

	var line string
	switch {
	case b.Op == BinaryDivide:
		line = fmt.Sprintf("zrt_Real t_%d = (zrt_Real)%s / (zrt_Real)%s;", id, lhs.cName(), rhs.cName())
	case b.Op == BinaryIntDivide:
		line = fmt.Sprintf("zrt_Int t_%d = (zrt_Int)(%s / %s);", id, lhs.cName(), rhs.cName())
	case b.Op == BinaryAdd && lhs.Base == String:
		line = fmt.Sprintf("zrt_String* t_%d = zrt_str_concat(%s, %s);", id, lhs.cName(), rhs.cName())
	case b.Op == BinaryMod && resultBase == Real:
		// '%' is undefined on double; the spec's operator table allows Real MOD Real, so route it through fmod.
		line = fmt.Sprintf("zrt_Real t_%d = fmod(%s, %s);", id, lhs.cName(), rhs.cName())
	case isBitwise(b.Op):
		line = fmt.Sprintf("%s t_%d = %s %s %s;", cTypeFor(resultBase), id, lhs.cName(), bitwiseCOp(b.Op, lhs.Base), rhs.cName())
	default:
		cOp, ok := binaryCOp[b.Op]
		if !ok {
			return ValueSlot{}, fmt.Errorf("emitter: unsupported binary operator")
		}

		line = fmt.Sprintf("%s t_%d = %s %s %s;", cTypeFor(resultBase), id, lhs.cName(), cOp, rhs.cName())
	}

	if err := e.writeLine(1, line); err != nil {
		return ValueSlot{}, err
	}

	if err := e.destroy(rhs); err != nil {
		return ValueSlot{}, err
	}

	if err := e.destroy(lhs); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: resultBase, Temp: id}, nil
}

// bitwiseCOp renders AND/OR/XOR's C spelling: short-circuit &&/|| on Boolean operands, bitwise &/| on Integer
// operands, ^ either way.
func bitwiseCOp(op BinaryOp, base BaseType) string {
	switch {
	case op == BinaryAnd && base == Boolean:
		return "&&"
	case op == BinaryOr && base == Boolean:
		return "||"
	case op == BinaryAnd:
		return "&"
	case op == BinaryOr:
		return "|"
	default:
		return "^"
	}
}

func (e *emitter) emitCall(c *FunctionCall) (ValueSlot, error) {
	arg, err := e.emitExpr(c.Args[0])
	if err != nil {
		return ValueSlot{}, err
	}

	id := e.nextTemp()
	if err := e.writeLine(1, fmt.Sprintf("zrt_String* t_%d = zrt_str_new_from_int(%s);", id, arg.cName())); err != nil {
		return ValueSlot{}, err
	}

	if err := e.destroy(arg); err != nil {
		return ValueSlot{}, err
	}

	return ValueSlot{Kind: slotTemporary, Base: String, Temp: id}, nil
}
