package formula

import (
	"errors"
	"fmt"
	"strings"

	"tagcalc/internal/calc"
	"tagcalc/internal/tag"
)

// ErrEvaluation is wrapped by every EvaluationError.
var ErrEvaluation = errors.New("there was an error calculating values")

// EvaluationError is returned when the assembled expression cannot be
// evaluated. Expr is the text handed to the evaluator.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrEvaluation, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}

// Resolve replaces every token that starts with a letter by the value of
// the tag with that normalized name, or "0" when there is none. Other
// tokens pass through unchanged. A leading "=" on the first token is
// ignored for the lookup only; Expression removes it from the text.
func Resolve(tokens []string, catalog *tag.Catalog) []string {
	out := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		key := tok
		if i == 0 {
			key = trimEquals(tok)
		}
		if !StartsWithLetter(key) {
			out = append(out, tok)
			continue
		}
		if t, ok := catalog.Lookup(key); ok {
			out = append(out, t.Value.Expr())
		} else {
			out = append(out, "0")
		}
	}
	return out
}

// Expression resolves tokens and joins them into evaluator input, dropping
// a single leading "=".
func Expression(tokens []string, catalog *tag.Catalog) string {
	return trimEquals(strings.Join(Resolve(tokens, catalog), ""))
}

// Evaluate computes the numeric result of tokens. Unknown tag names count
// as zero; malformed expressions yield an *EvaluationError.
func Evaluate(tokens []string, catalog *tag.Catalog, ev calc.Evaluator) (float64, error) {
	expr := Expression(tokens, catalog)
	if expr == "" {
		return 0, &EvaluationError{Expr: expr, Err: errors.New("empty expression")}
	}
	if ev == nil {
		ev = calc.Arithmetic{}
	}
	v, err := ev.Eval(expr)
	if err != nil {
		return 0, &EvaluationError{Expr: expr, Err: err}
	}
	return v, nil
}

// trimEquals drops one leading "=" and the whitespace after it.
func trimEquals(s string) string {
	if rest, ok := strings.CutPrefix(s, "="); ok {
		return strings.TrimLeft(rest, " \t\r\n")
	}
	return s
}
