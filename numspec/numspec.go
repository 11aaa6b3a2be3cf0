// Package numspec parses entity selection specifications.
//
// A selection is either a plain boolean ("true", "no", "on", ...) or an
// explicit set of positive numbers written as comma/space separated tokens,
// where each token is a single number or an inclusive range:
//
//	"true"       -> boolean true
//	"1"          -> {1}
//	"1,3,5"      -> {1,3,5}
//	"1-3, 7"     -> {1,2,3,7}
package numspec

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidSpec is wrapped by all parse errors returned from Parse and ParseBool.
var ErrInvalidSpec = errors.New("invalid selection spec")

// Value is the result of parsing a selection spec: either a boolean or a set
// of positive numbers. The zero Value is boolean false.
type Value struct {
	isBool  bool
	boolean bool
	numbers map[int]struct{}
}

// Bool returns a boolean Value.
func Bool(v bool) Value {
	return Value{isBool: true, boolean: v}
}

// Numbers returns a numeric selection Value containing the given numbers.
func Numbers(ns ...int) Value {
	set := make(map[int]struct{}, len(ns))
	for _, n := range ns {
		set[n] = struct{}{}
	}
	return Value{numbers: set}
}

// IsBool reports whether the value is a plain boolean rather than a number set.
func (v Value) IsBool() bool {
	return v.isBool
}

// BoolValue returns the boolean value. It is only meaningful when IsBool is true.
func (v Value) BoolValue() bool {
	return v.boolean
}

// Enabled reports whether the selection enables its entity: boolean true or a
// non-empty number set.
func (v Value) Enabled() bool {
	if v.isBool {
		return v.boolean
	}
	return len(v.numbers) > 0
}

// Selective reports whether the value restricts processing to specific numbers.
func (v Value) Selective() bool {
	return !v.isBool && len(v.numbers) > 0
}

// Contains reports whether n is selected. A boolean true value selects every
// number; a boolean false value selects none.
func (v Value) Contains(n int) bool {
	if v.isBool {
		return v.boolean
	}
	_, ok := v.numbers[n]
	return ok
}

// List returns the selected numbers in ascending order. Nil for boolean values.
func (v Value) List() []int {
	if v.isBool {
		return nil
	}
	out := make([]int, 0, len(v.numbers))
	for n := range v.numbers {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// String returns a canonical representation, suitable for logs.
func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.boolean)
	}
	parts := make([]string, 0, len(v.numbers))
	for _, n := range v.List() {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

// Parse parses a selection spec. Boolean tokens are recognized
// case-insensitively; anything else is parsed as a number set.
func Parse(spec string) (Value, error) {
	trimmed := strings.TrimSpace(spec)
	if trimmed == "" {
		return Value{}, fmt.Errorf("%w: empty spec", ErrInvalidSpec)
	}

	if b, ok := boolToken(trimmed); ok {
		return Bool(b), nil
	}

	set := make(map[int]struct{})
	for _, token := range splitTokens(trimmed) {
		if err := parseToken(token, set); err != nil {
			return Value{}, err
		}
	}
	return Value{numbers: set}, nil
}

// ParseBool parses a spec that must be a boolean token.
func ParseBool(spec string) (bool, error) {
	b, ok := boolToken(strings.TrimSpace(spec))
	if !ok {
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidSpec, spec)
	}
	return b, nil
}

// boolToken recognizes the accepted boolean spellings.
func boolToken(s string) (value, ok bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// splitTokens splits on commas and whitespace, dropping empty tokens
// so "1, 2" and "1 2" are equivalent.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// parseToken parses one token (number or range) into set.
func parseToken(token string, set map[int]struct{}) error {
	if lo, hi, isRange := splitRange(token); isRange {
		a, err := parsePositive(lo, token)
		if err != nil {
			return err
		}
		b, err := parsePositive(hi, token)
		if err != nil {
			return err
		}
		if a > b {
			return fmt.Errorf("%w: range %q is inverted", ErrInvalidSpec, token)
		}
		for n := a; n <= b; n++ {
			set[n] = struct{}{}
		}
		return nil
	}

	n, err := parsePositive(token, token)
	if err != nil {
		return err
	}
	set[n] = struct{}{}
	return nil
}

// splitRange splits "a-b" into its halves. A leading '-' is not a range
// separator, so negative numbers fall through to parsePositive and fail there.
func splitRange(token string) (lo, hi string, ok bool) {
	i := strings.Index(token, "-")
	if i <= 0 || i == len(token)-1 {
		return "", "", false
	}
	return token[:i], token[i+1:], true
}

func parsePositive(s, token string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed token %q", ErrInvalidSpec, token)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: token %q: numbers must be positive", ErrInvalidSpec, token)
	}
	return n, nil
}
