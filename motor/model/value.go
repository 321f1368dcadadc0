package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which variant of a Value is populated.
type Kind int

const (
	// KindText is raw element text that did not qualify as an integer.
	KindText Kind = iota
	// KindInt is element text made up entirely of ASCII digits.
	KindInt
	// KindNumber is a computed float, which may be NaN.
	KindNumber
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Value is a single cell of a report row.
type Value struct {
	kind Kind
	text string
	i    int64
	f    float64
}

// Text creates a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Int creates an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Number creates a floating point value.
func Number(f float64) Value {
	return Value{kind: KindNumber, f: f}
}

// Coerce turns metric text into an Int when every character is a digit,
// otherwise the text is kept as is. "042" becomes 42, "4.2" stays "4.2".
func Coerce(s string) Value {
	if !digitsOnly.MatchString(s) {
		return Text(s)
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// too many digits for an int64, keep what the document said
		return Text(s)
	}
	return Int(i)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// Float returns the numeric reading of v using the same coercion a
// browser applies to Number(value): blank text is zero, anything that
// does not parse is NaN.
func (v Value) Float() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindNumber:
		return v.f
	default:
		return ToNumber(v.text)
	}
}

// String renders v as it appears in a CSV cell.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindNumber:
		return FormatNumber(v.f)
	default:
		return v.text
	}
}

// ToNumber reads text as a number. Blank text is 0. Unsigned 0x, 0o and
// 0b literals are read in their base; anything that is not one of those,
// a plain decimal literal or Infinity is NaN.
func ToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		if base, ok := radixPrefixes[s[1]]; ok {
			return parseRadix(s[2:], base)
		}
	}
	// ParseFloat also takes inf, nan, hex and underscores
	if strings.ContainsAny(s, "iInNxXpP_") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

var radixPrefixes = map[byte]float64{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}

// parseRadix accumulates in float64 so literals wider than 64 bits still
// produce a value instead of overflowing.
func parseRadix(digits string, base float64) float64 {
	f := 0.0
	for i := 0; i < len(digits); i++ {
		d := digitValue(digits[i])
		if d < 0 || float64(d) >= base {
			return math.NaN()
		}
		f = f*base + float64(d)
	}
	return f
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// ParseLeadingInt reads an optionally signed run of leading digits after
// any whitespace, ignoring whatever follows. ok is false when no digit is
// found.
func ParseLeadingInt(s string) (n int64, ok bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// FormatNumber renders f with the shortest representation that round
// trips; NaN and the infinities render by name.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
