package categories

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// IdentityKind is the comparison rule applied to a category's identity field
type IdentityKind int

const (
	// IdentityString requires the stored value to be a string equal to the submitted text.
	IdentityString IdentityKind = iota
	// IdentityInteger parses the submitted text as an integer and requires a numerically
	// equal stored number.
	IdentityInteger
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityString:
		return "string"
	case IdentityInteger:
		return "integer"
	default:
		return "unknown"
	}
}

// Matches reports whether a stored identity value matches the submitted identifier text.
// Stored values are the decoded JSON values of a record (string, json.Number or float64).
func (k IdentityKind) Matches(stored any, submitted string) bool {
	switch k {
	case IdentityString:
		s, ok := stored.(string)
		return ok && s == submitted
	case IdentityInteger:
		n, ok := ParseLeadingInt(submitted)
		if !ok {
			return false
		}
		return numberEquals(stored, n)
	default:
		return false
	}
}

func numberEquals(stored any, n int64) bool {
	switch v := stored.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i == n
		}
		f, err := v.Float64()
		return err == nil && f == float64(n)
	case float64:
		return v == float64(n)
	case int64:
		return v == n
	case int:
		return int64(v) == n
	default:
		return false
	}
}

// ParseLeadingInt reads an integer from the start of s the way a lenient form parser
// does: leading whitespace is skipped, an optional sign and a "0x" prefix are accepted,
// and parsing stops at the first character that is not a digit. "42abc" yields 42,
// "abc" yields false.
func ParseLeadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && isDigit(s[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	u, err := strconv.ParseUint(s[:end], base, 64)
	if err != nil || u > math.MaxInt64 {
		return 0, false
	}
	n := int64(u)
	if negative {
		n = -n
	}
	return n, true
}

func isDigit(c byte, base int) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if base == 16 {
		return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	}
	return false
}
