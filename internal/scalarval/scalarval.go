// Package scalarval implements the strict scalar parsing rules for
// attribute values: the entire trimmed string must be consumed, and
// booleans accept only lowercase "true"/"false".
package scalarval

import (
	"fmt"
	"strconv"
	"strings"
)

// Float parses s as a float64. The trimmed value must be consumed in full;
// any trailing non-whitespace is rejected.
func Float(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty value where a float was expected")
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid float", s)
	}
	return v, nil
}

// Int parses s as an int64 under the same strict trailing-garbage rule.
func Int(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty value where an integer was expected")
	}
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid integer", s)
	}
	return v, nil
}

// Bool parses s as a boolean. Only the lowercase literals "true" and
// "false" are accepted; anything else, including "True" or "1", is an error.
func Bool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf(`%q is not a valid boolean (expected "true" or "false")`, s)
	}
}

// Fields splits a whitespace-separated attribute value into tokens,
// discarding empty tokens from repeated whitespace. Used for "x y z"-style
// vector attributes and the 16-token matrix attribute.
func Fields(s string) []string {
	return strings.Fields(s)
}
