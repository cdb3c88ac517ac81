// Package category canonicalizes catalog category names and provides the
// lookup structures keyed by them.
package category

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Uncategorized is the key used for products without a category.
const Uncategorized = "Uncategorized"

var unicodeEscapes = regexp.MustCompile(`(?:\\[uU][0-9a-fA-F]{4})+`)

// Decode unescapes HTML entities and \uXXXX escapes until the value stops
// changing, then trims surrounding whitespace. Decode(Decode(s)) == Decode(s)
// for any s.
func Decode(s string) string {
	for {
		next := decodeOnce(s)
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
}

// Key returns the canonical map key for a raw category label.
func Key(raw string) string {
	k := Decode(raw)
	if k == "" {
		return Uncategorized
	}
	return k
}

// decodeOnce strips one level of encoding. Every change shortens the string,
// so repeated application reaches a fixed point.
func decodeOnce(s string) string {
	if strings.ContainsRune(s, '&') {
		s = html.UnescapeString(s)
	}
	if strings.Contains(s, `\u`) || strings.Contains(s, `\U`) {
		s = unicodeEscapes.ReplaceAllStringFunc(s, decodeEscapeRun)
	}
	return s
}

// decodeEscapeRun converts a run of \uXXXX escapes, joining surrogate pairs.
func decodeEscapeRun(run string) string {
	units := make([]uint16, 0, len(run)/6)
	for i := 0; i+6 <= len(run); i += 6 {
		v, err := strconv.ParseUint(run[i+2:i+6], 16, 16)
		if err != nil {
			return run
		}
		units = append(units, uint16(v))
	}
	return string(utf16.Decode(units))
}
