package npi

import "fmt"

// CheckDigit computes the Luhn mod-10 check digit for a digit string.
// It is a standalone validation utility: generated pool identifiers do not
// carry a check digit, and nothing in generation calls this.
func CheckDigit(digits string) (string, error) {
	if digits == "" {
		return "", fmt.Errorf("cannot compute check digit of empty string")
	}
	parity := len(digits) % 2
	total := 0
	for i, ch := range digits {
		if ch < '0' || ch > '9' {
			return "", fmt.Errorf("check digit input %q must be digits only", digits)
		}
		d := int(ch - '0')
		if i%2 == parity {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
	}
	return string(rune('0' + (10-total%10)%10)), nil
}

// ValidLuhn reports whether the last digit of s is the Luhn check digit of
// the preceding digits.
func ValidLuhn(s string) bool {
	if len(s) < 2 {
		return false
	}
	check, err := CheckDigit(s[:len(s)-1])
	if err != nil {
		return false
	}
	return check == s[len(s)-1:]
}
