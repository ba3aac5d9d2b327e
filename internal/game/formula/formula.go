// Package formula evaluates level-parameterized stat formulas written in
// postfix (Reverse Polish) notation.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformedFormula is returned when a formula cannot be reduced to exactly one value.
var ErrMalformedFormula = errors.New("malformed formula")

// LevelToken is substituted with the evaluation level.
const LevelToken = "level"

const (
	opAdd  = "+"
	opSub  = "-"
	opMul  = "*"
	opDiv  = "/"
	opPow  = "power"
	opSqrt = "sqrt"
)

// Formula is an ordered sequence of postfix tokens.
type Formula []string

// Parse splits expr on whitespace and checks every token is a number, "level",
// or a known operator. Stack shape is only checked by Eval.
//
// Precondition: expr must be non-empty.
// Postcondition: Returns a non-empty Formula or an error wrapping ErrMalformedFormula.
func Parse(expr string) (Formula, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("formula: empty expression: %w", ErrMalformedFormula)
	}
	for _, tok := range tokens {
		if !validToken(tok) {
			return nil, fmt.Errorf("formula: unknown token %q in %q: %w", tok, expr, ErrMalformedFormula)
		}
	}
	return Formula(tokens), nil
}

// MustParse parses expr and panics on error. Useful for fixtures.
//
// Precondition: expr must be a valid formula.
func MustParse(expr string) Formula {
	f, err := Parse(expr)
	if err != nil {
		panic("formula: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return f
}

// String returns the tokens joined by single spaces.
func (f Formula) String() string {
	return strings.Join(f, " ")
}

// Eval evaluates f at the given level.
//
// Postcondition: Returns the single value left on the stack, or an error wrapping
// ErrMalformedFormula.
func (f Formula) Eval(level int) (float64, error) {
	return Evaluate(f, level)
}

// UnmarshalYAML accepts either a whitespace-separated string or a sequence of tokens.
func (f *Formula) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := Parse(value.Value)
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	case yaml.SequenceNode:
		var tokens []string
		if err := value.Decode(&tokens); err != nil {
			return fmt.Errorf("formula: decoding token list: %w", err)
		}
		parsed, err := Parse(strings.Join(tokens, " "))
		if err != nil {
			return err
		}
		*f = parsed
		return nil
	default:
		return fmt.Errorf("formula: line %d: expected string or list: %w", value.Line, ErrMalformedFormula)
	}
}

// Evaluate runs tokens as a postfix program with "level" bound to level.
// Numbers and "level" push; binary operators pop two operands (left pushed first)
// and push the result; "sqrt" pops one.
//
// Postcondition: Returns the sole stack value, or an error wrapping ErrMalformedFormula
// on stack underflow, leftover operands, division by zero, square root of a
// negative number, a non-finite result, or an unknown or non-finite token.
func Evaluate(tokens []string, level int) (float64, error) {
	stack := make([]float64, 0, len(tokens))
	pop := func() float64 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	for i, tok := range tokens {
		switch tok {
		case LevelToken:
			stack = append(stack, float64(level))
		case opSqrt:
			if len(stack) < 1 {
				return 0, fmt.Errorf("formula: %q at position %d needs 1 operand: %w", tok, i, ErrMalformedFormula)
			}
			v := pop()
			if v < 0 {
				return 0, fmt.Errorf("formula: sqrt of negative value %g: %w", v, ErrMalformedFormula)
			}
			stack = append(stack, math.Sqrt(v))
		case opAdd, opSub, opMul, opDiv, opPow:
			if len(stack) < 2 {
				return 0, fmt.Errorf("formula: %q at position %d needs 2 operands, have %d: %w", tok, i, len(stack), ErrMalformedFormula)
			}
			right := pop()
			left := pop()
			v, err := apply(tok, left, right)
			if err != nil {
				return 0, err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("formula: %g %s %g is not finite: %w", left, tok, right, ErrMalformedFormula)
			}
			stack = append(stack, v)
		default:
			n, ok := literal(tok)
			if !ok {
				return 0, fmt.Errorf("formula: unknown token %q at position %d: %w", tok, i, ErrMalformedFormula)
			}
			stack = append(stack, n)
		}
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("formula: %d values left on stack, want 1: %w", len(stack), ErrMalformedFormula)
	}
	return stack[0], nil
}

func apply(op string, left, right float64) (float64, error) {
	switch op {
	case opAdd:
		return left + right, nil
	case opSub:
		return left - right, nil
	case opMul:
		return left * right, nil
	case opDiv:
		if right == 0 {
			return 0, fmt.Errorf("formula: division by zero: %w", ErrMalformedFormula)
		}
		return left / right, nil
	default:
		return math.Pow(left, right), nil
	}
}

func validToken(tok string) bool {
	switch tok {
	case LevelToken, opAdd, opSub, opMul, opDiv, opPow, opSqrt:
		return true
	}
	_, ok := literal(tok)
	return ok
}

// literal parses a finite numeric token. NaN and infinities are rejected.
func literal(tok string) (float64, bool) {
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
