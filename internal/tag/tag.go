package tag

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Tag is a named external value that formulas reference by display name.
type Tag struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Value    Value  `json:"value"`
}

// Key returns the normalized name used for lookups.
func (t Tag) Key() string {
	return Normalize(t.Name)
}

// Normalize drops every whitespace rune from name.
// "total revenue" -> "totalrevenue"
func Normalize(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}

// Value is a tag payload: either a number or a string.
type Value struct {
	num   float64
	str   string
	isNum bool
}

// Number builds a numeric value.
func Number(f float64) Value {
	return Value{num: f, isNum: true}
}

// String builds a string value.
func String(s string) Value {
	return Value{str: s}
}

// IsNumber reports whether the payload was a JSON number.
func (v Value) IsNumber() bool { return v.isNum }

// Float returns the numeric reading of v. Strings that do not parse yield 0, false.
func (v Value) Float() (float64, bool) {
	if v.isNum {
		return v.num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Expr is the text substituted into an arithmetic expression.
// Non-numeric strings fall back to "0"; negatives are parenthesized.
func (v Value) Expr() string {
	f, ok := v.Float()
	if !ok {
		return "0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f < 0 {
		return "(" + s + ")"
	}
	return s
}

// String returns the payload as it was loaded.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("tag value must be a number or string: %w", err)
	}
	*v = Number(f)
	return nil
}

// ParseValue reads a value from plain text, as found in CSV or sqlite rows.
// Text that parses as a float becomes a number.
func ParseValue(s string) Value {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Number(f)
	}
	return String(s)
}
