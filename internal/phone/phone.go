// Package phone normalizes Bangladeshi mobile numbers to one canonical form
// before they are compared, stored, or handed to the auth service.
package phone

import (
	"errors"
	"strings"
)

// ErrInvalidNumber means the input does not resolve to a Bangladeshi mobile
// number (country code 880, operator prefix 1, nine more digits).
var ErrInvalidNumber = errors.New("invalid phone number")

const countryCode = "880"

// Normalize maps the accepted local forms to "+8801XXXXXXXXX":
//
//	01712345678    (local with leading zero)
//	1712345678     (local without leading zero)
//	8801712345678  (country code, no plus)
//	+8801712345678 (full international)
//
// Spaces and dashes are ignored. Anything else fails.
func Normalize(input string) (string, error) {
	var digits strings.Builder
	for i, r := range strings.TrimSpace(input) {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == '+' && i == 0:
			// ignored, the digit check below does the work
		case r == ' ' || r == '-':
			// separators are tolerated
		default:
			return "", ErrInvalidNumber
		}
	}

	d := digits.String()
	switch {
	case len(d) == 13 && strings.HasPrefix(d, countryCode):
		// 8801XXXXXXXXX
	case len(d) == 11 && strings.HasPrefix(d, "0"):
		d = countryCode + d[1:]
	case len(d) == 10:
		d = countryCode + d
	default:
		return "", ErrInvalidNumber
	}

	// after the country code there must be exactly "1" + 9 digits
	if len(d) != 13 || d[3] != '1' {
		return "", ErrInvalidNumber
	}
	return "+" + d, nil
}
