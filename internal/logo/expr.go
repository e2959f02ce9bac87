// Completion: 100% - Single-tier left-to-right expression parsing and evaluation
package logo

import (
	"strconv"
	"strings"
)

// exprState is the reader state of the expression parser
type exprState int

const (
	expectOperand exprState = iota
	expectOperator
)

func isOperator(s string) bool {
	switch s {
	case "*", "/", "+", "-":
		return true
	}
	return false
}

// parseOperand turns one token into a leaf, or reports false
func parseOperand(text string) (Expression, bool) {
	if strings.HasPrefix(text, paramSigil) {
		return &ParamExpr{Name: strings.TrimPrefix(text, paramSigil)}, true
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return &NumberExpr{Value: v}, true
	}
	return nil, false
}

// ParseExpr consumes the longest arithmetic expression starting at *pos and
// leaves *pos just past it. All four operators share one precedence tier:
// each operator is folded into the expression read so far as soon as its
// right operand is known, so 2 + 3 * 4 is (2 + 3) * 4.
func ParseExpr(tokens []Token, pos *int) (Expression, error) {
	var (
		result  Expression
		pending string // operator waiting for its right operand
		state   = expectOperand
	)
	for {
		switch state {
		case expectOperand:
			if *pos >= len(tokens) {
				return nil, ExpectedValueFault(lastToken(tokens), true)
			}
			tok := tokens[*pos]
			leaf, ok := parseOperand(tok.Text)
			if !ok {
				return nil, ExpectedValueFault(tok, false)
			}
			*pos++
			if pending == "" {
				result = leaf
			} else {
				result = &BinaryExpr{Left: result, Operator: pending, Right: leaf}
				pending = ""
			}
			state = expectOperator

		case expectOperator:
			if *pos >= len(tokens) || !isOperator(tokens[*pos].Text) {
				return result, nil
			}
			pending = tokens[*pos].Text
			*pos++
			state = expectOperand
		}
	}
}

func lastToken(tokens []Token) Token {
	if len(tokens) == 0 {
		return Token{}
	}
	return tokens[len(tokens)-1]
}

// Eval computes a fully resolved expression. Division by zero follows IEEE
// rules (Inf or NaN).
func Eval(e Expression) (float64, error) {
	switch n := e.(type) {
	case *NumberExpr:
		return n.Value, nil
	case *ParamExpr:
		return 0, RuntimeFault(ErrUnresolvedParam, "unresolved parameter '%s%s' in expression", paramSigil, n.Name)
	case *BinaryExpr:
		lhs, err := Eval(n.Left)
		if err != nil {
			return 0, err
		}
		rhs, err := Eval(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case "*":
			return lhs * rhs, nil
		case "/":
			return lhs / rhs, nil
		case "+":
			return lhs + rhs, nil
		case "-":
			return lhs - rhs, nil
		}
		return 0, RuntimeFault(ErrExpectedValue, "unknown operator '%s'", n.Operator)
	case nil:
		return 0, RuntimeFault(ErrExpectedValue, "missing expression")
	}
	return 0, RuntimeFault(ErrExpectedValue, "cannot evaluate %T", e)
}

// EvalCondition reduces a comparison to a BoolCondition
func EvalCondition(c Condition) (*BoolCondition, error) {
	switch n := c.(type) {
	case *BoolCondition:
		return n, nil
	case *CompareExpr:
		lhs, err := Eval(n.Left)
		if err != nil {
			return nil, err
		}
		rhs, err := Eval(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case ">":
			return &BoolCondition{Value: lhs > rhs}, nil
		case "<":
			return &BoolCondition{Value: lhs < rhs}, nil
		}
		return nil, RuntimeFault(ErrInvalidComparison, "invalid comparison operator '%s'", n.Operator)
	}
	return nil, RuntimeFault(ErrInvalidComparison, "cannot evaluate condition %T", c)
}
