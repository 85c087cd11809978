// Package calc evaluates infix arithmetic: + - * / ^, parentheses and unary
// signs over float64.
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrNonFinite reports a NaN or infinite result.
	ErrNonFinite = errors.New("result is not a finite number")
	// ErrDivideByZero is a non-finite result caused by a zero divisor.
	ErrDivideByZero = fmt.Errorf("division by zero: %w", ErrNonFinite)
)

// SyntaxError describes malformed input at a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// Evaluator turns an expression string into a number.
type Evaluator interface {
	Eval(expr string) (float64, error)
}

// Func adapts a plain function to Evaluator.
type Func func(expr string) (float64, error)

func (f Func) Eval(expr string) (float64, error) { return f(expr) }

// Arithmetic is the built-in Evaluator.
type Arithmetic struct{}

func (Arithmetic) Eval(expr string) (float64, error) {
	return Eval(expr)
}

// Eval parses and evaluates expr. Precedence from low to high:
// + -, * /, unary + -, ^ (right associative), parentheses.
func Eval(expr string) (float64, error) {
	p := parser{input: expr}

	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	val, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, p.errorf("unexpected %q", p.input[p.pos])
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, ErrNonFinite
	}
	return val, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parser) parseExpr() (float64, error) {
	return p.parseAddSub()
}

func (p *parser) parseAddSub() (float64, error) {
	val, err := p.parseMulDiv()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return val, nil
		}
		p.pos++
		right, err := p.parseMulDiv()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			val += right
		} else {
			val -= right
		}
	}
}

func (p *parser) parseMulDiv() (float64, error) {
	val, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return val, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			val *= right
		} else {
			if right == 0 {
				return 0, ErrDivideByZero
			}
			val /= right
		}
	}
}

// parseUnary binds looser than ^, so -2^2 == -4.
func (p *parser) parseUnary() (float64, error) {
	ch, ok := p.peek()
	if ok && ch == '+' {
		p.pos++
		return p.parseUnary()
	}
	if ok && ch == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	if ch, ok := p.peek(); !ok || ch != '^' {
		return base, nil
	}
	p.pos++
	// right associative; the exponent may carry its own sign: 2^-1
	exp, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *parser) parsePrimary() (float64, error) {
	ch, ok := p.peek()
	if !ok {
		return 0, p.errorf("unexpected end of expression")
	}
	if ch == '(' {
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
	if isDigit(ch) || ch == '.' {
		return p.parseNumber()
	}
	if isLetter(ch) {
		start := p.pos
		for p.pos < len(p.input) && (isLetter(p.input[p.pos]) || isDigit(p.input[p.pos])) {
			p.pos++
		}
		return 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("undefined symbol %q", p.input[start:p.pos])}
	}
	return 0, p.errorf("unexpected %q", ch)
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	j := p.pos
	seenDot := false
	seenE := false
	for j < len(p.input) {
		c := p.input[j]
		if isDigit(c) {
			j++
			continue
		}
		if c == '.' {
			if seenDot || seenE {
				break
			}
			seenDot = true
			j++
			continue
		}
		if (c == 'e' || c == 'E') && j > start {
			// only an exponent when digits follow
			k := j + 1
			if k < len(p.input) && (p.input[k] == '+' || p.input[k] == '-') {
				k++
			}
			if seenE || k >= len(p.input) || !isDigit(p.input[k]) {
				break
			}
			seenE = true
			j = k
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(p.input[start:j], 64)
	if err != nil {
		return 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("bad number %q", p.input[start:j])}
	}
	p.pos = j
	return v, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isDigit(b byte) bool {
	return (b >= '0' && b <= '9')
}
