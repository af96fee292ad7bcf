package util

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseString turns an untyped JSON value into text. Missing and falsy values
// become "", JSON numbers keep their literal text, and arrays or objects are
// treated as missing.
func LooseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
		return t.String()
	case float64:
		if t == 0 || math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// ParseGrowth reads the numeric growth value used for sorting. Thousands
// separators are dropped; anything that does not parse to a finite number is 0.
func ParseGrowth(v any) float64 {
	text := strings.ReplaceAll(numericText(v), ",", "")
	n, ok := parseNumber(text)
	if !ok {
		return 0
	}
	return n
}

// ParsePercent reads a ticker share such as "37%". Unparseable input and a
// real 0% both yield 0.
func ParsePercent(v any) float64 {
	text := strings.ReplaceAll(numericText(v), "%", "")
	n, ok := parseNumber(text)
	if !ok || n == 0 {
		return 0
	}
	return n
}

// numericText differs from LooseString only for a JSON number 0, which must
// still read as "0".
func numericText(v any) string {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return LooseString(v)
	}
}

func parseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, true
	}

	if n, ok := parseIntegerLiteral(s); ok {
		return n, true
	}

	if strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// parseIntegerLiteral accepts unsigned 0x, 0o and 0b integers.
func parseIntegerLiteral(s string) (float64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	var base int
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, false
	}
	if strings.Contains(s, "_") {
		return 0, false
	}
	u, err := strconv.ParseUint(s[2:], base, 64)
	if err != nil {
		return 0, false
	}
	return float64(u), true
}

// FormatNumber prints a float the short way: 37 rather than 37.000000.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
