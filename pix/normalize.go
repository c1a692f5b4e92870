package pix

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxNameLength          = 25
	maxCityLength          = 15
	maxTransactionIDLength = 25
)

// Normalize makes s safe for the BR Code name and city fields: accents are
// removed, anything but ASCII letters, digits, '_' and spaces is dropped,
// and the result is upper cased and cut to maxLen characters.
func Normalize(s string, maxLen int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var sb strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(stripped) {
		if n == maxLen {
			break
		}
		if !isWordRune(r) && !unicode.IsSpace(r) {
			continue
		}
		if unicode.IsSpace(r) {
			r = ' '
		}
		sb.WriteRune(unicode.ToUpper(r))
		n++
	}
	return strings.TrimRight(sb.String(), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// keepAlphanumeric drops everything but ASCII letters and digits, then cuts
// the result to maxLen characters.
func keepAlphanumeric(s string, maxLen int) string {
	var sb strings.Builder
	for _, r := range s {
		if sb.Len() == maxLen {
			break
		}
		if isWordRune(r) && r != '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func onlyDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
