package formula

import (
	"tagcalc/internal/calc"
	"tagcalc/internal/tag"
)

// State is a point in the formula lifecycle.
type State int

const (
	Empty State = iota
	Editing
	Evaluating
	Evaluated
	Failed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Editing:
		return "editing"
	case Evaluating:
		return "evaluating"
	case Evaluated:
		return "evaluated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Formula is the text in the formula bar and its tokens. Tokens are always
// rebuilt from Raw on edits; only ApplySuggestion patches them in place.
type Formula struct {
	Raw    string
	Tokens []string
	State  State

	// Result is the last successful evaluation. It survives failures and is
	// shown only while State is Evaluated.
	Result float64
}

// SetRaw replaces the text after a keystroke. Blank text clears the formula.
func (f *Formula) SetRaw(raw string) {
	if IsBlank(raw) {
		f.Clear()
		return
	}
	f.Raw = raw
	f.Tokens = Tokenize(raw)
	f.State = Editing
}

// Apply writes an accepted suggestion into the formula.
func (f *Formula) Apply(t tag.Tag) {
	f.Raw, f.Tokens = ApplySuggestion(f.Raw, f.Tokens, t)
	f.State = Editing
}

// Clear resets the formula to empty. The previous result is kept but hidden.
func (f *Formula) Clear() {
	f.Raw = ""
	f.Tokens = nil
	f.State = Empty
}

// Evaluate runs the formula against catalog. On failure Result is left as it was.
func (f *Formula) Evaluate(catalog *tag.Catalog, ev calc.Evaluator) (float64, error) {
	prev := f.State
	f.State = Evaluating
	v, err := Evaluate(f.Tokens, catalog, ev)
	if err != nil {
		f.State = Failed
		if prev == Empty {
			f.State = Empty
		}
		return 0, err
	}
	f.Result = v
	f.State = Evaluated
	return v, nil
}

// ShowsResult reports whether the result should be displayed.
func (f *Formula) ShowsResult() bool {
	return f.State == Evaluated
}
