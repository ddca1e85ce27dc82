package zeebasic

import "fmt"

// isBitwise reports whether op is one of the boolean/integer bitwise operators (AND, OR, XOR), the "bitwise" class
// referenced throughout the binary operator table in spec §4.3.
func isBitwise(op BinaryOp) bool {
	return op == BinaryAnd || op == BinaryOr || op == BinaryXor
}

// isComparison reports whether op is one of the six comparison operators, which always yield Boolean.
func isComparison(op BinaryOp) bool {
	switch op {
	case BinaryEqual, BinaryNotEqual, BinaryLess, BinaryLessEquals, BinaryGreater, BinaryGreaterEquals:
		return true
	default:
		return false
	}
}

// binaryPlan is the outcome of resolving a binary operator against a pair of operand types: whether either side
// needs an implicit Cast to Real before the operator applies, and the resulting type.
type binaryPlan struct {
	castLhsToReal bool
	castRhsToReal bool
	result        BaseType
}

// resolveBinary implements the decision table of spec §4.3: evaluated top to bottom, first match wins. Expressed
// as a sequence of type-pair cases rather than a lookup map (the spec's design note allows either); this form
// keeps the "first match wins" row ordering explicit.
func resolveBinary(lhs, rhs BaseType, op BinaryOp) (binaryPlan, error) {
	switch {
	case lhs == Boolean && rhs == Boolean:
		if isBitwise(op) || isComparison(op) {
			return binaryPlan{result: Boolean}, nil
		}

		return binaryPlan{}, fmt.Errorf("operation not allowed on boolean types")

	case lhs == Integer && rhs == Integer:
		return binaryPlan{result: binaryResultType(op, Integer)}, nil

	case lhs == Real && rhs == Real:
		if isBitwise(op) {
			return binaryPlan{}, fmt.Errorf("bitwise operation not allowed on real types")
		}

		return binaryPlan{result: binaryResultType(op, Real)}, nil

	case lhs == String && rhs == String:
		if op == BinaryAdd {
			return binaryPlan{result: String}, nil
		}

		return binaryPlan{}, fmt.Errorf("operation not allowed on string types")

	case (lhs == Boolean && rhs == Integer) || (lhs == Integer && rhs == Boolean):
		return binaryPlan{}, fmt.Errorf("implicit cast between integer and boolean not allowed")

	case (lhs == Integer && rhs == Real) || (lhs == Real && rhs == Integer):
		if isBitwise(op) {
			return binaryPlan{}, fmt.Errorf("bitwise operation not allowed on real types")
		}

		if lhs == Integer {
			return binaryPlan{castLhsToReal: true, result: binaryResultType(op, Real)}, nil
		}

		return binaryPlan{castRhsToReal: true, result: binaryResultType(op, Real)}, nil

	case (lhs == Boolean && rhs == Real) || (lhs == Real && rhs == Boolean):
		return binaryPlan{}, fmt.Errorf("implicit cast between real and boolean not allowed")

	case lhs == String || rhs == String:
		return binaryPlan{}, fmt.Errorf("unable to implicitly cast type to string")

	default:
		return binaryPlan{}, fmt.Errorf("operation not allowed between %s and %s", lhs, rhs)
	}
}

// binaryResultType applies spec §4.3's result-type selection, independent of which row matched: division always
// yields Real, integer division always yields Integer, comparisons always yield Boolean, otherwise the result is
// the (possibly-promoted) lhs type.
func binaryResultType(op BinaryOp, promotedLhs BaseType) BaseType {
	switch {
	case op == BinaryDivide:
		return Real
	case op == BinaryIntDivide:
		return Integer
	case isComparison(op):
		return Boolean
	default:
		return promotedLhs
	}
}

// resolveUnary implements spec §4.3's unary rule: Negate is allowed on Integer and Real, BitwiseNot (NOT) on
// Boolean and Integer. Result type equals operand type.
func resolveUnary(op UnaryOp, operand BaseType) (BaseType, error) {
	switch op {
	case UnaryNegate:
		if operand == Integer || operand == Real {
			return operand, nil
		}

		return Unknown, fmt.Errorf("negate not allowed on %s type", operand)
	case UnaryNot:
		if operand == Boolean || operand == Integer {
			return operand, nil
		}

		return Unknown, fmt.Errorf("not not allowed on %s type", operand)
	default:
		return Unknown, fmt.Errorf("unknown unary operator")
	}
}

// assignCastPlan describes the implicit conversion (if any) resolveAssign chooses when a statement's RHS type
// doesn't already match its LHS symbol's declared type.
type assignCastPlan struct {
	needed bool
	toBase BaseType
}

// resolveAssign implements spec §4.3's assignment rule: the only allowed implicit conversions are
// Boolean->Integer, Real->Integer, Integer->Real. Anything else is an error.
func resolveAssign(target, value BaseType) (assignCastPlan, error) {
	if target == value {
		return assignCastPlan{}, nil
	}

	switch {
	case target == Integer && (value == Boolean || value == Real):
		return assignCastPlan{needed: true, toBase: Integer}, nil
	case target == Real && value == Integer:
		return assignCastPlan{needed: true, toBase: Real}, nil
	default:
		return assignCastPlan{}, fmt.Errorf("unable to implicitly cast type")
	}
}

// resolveStrCall implements spec §4.3's STR$ rule: exactly one Integer argument, String result.
func resolveStrCall(args []Expr) error {
	if len(args) != 1 {
		return fmt.Errorf("str$ expects exactly one argument")
	}

	if args[0].ExprType().Base != Integer {
		return fmt.Errorf("str$ argument must be integer")
	}

	return nil
}
