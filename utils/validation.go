// utils/validation.go
package utils

import (
	"fmt"
	"strings"
	"unicode"
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nationalDigits returns the 11 digit area code plus mobile number, accepting
// an optional 55 country prefix.
func nationalDigits(phone string) (string, bool) {
	d := digitsOnly(phone)
	if len(d) == 13 && strings.HasPrefix(d, "55") {
		d = d[2:]
	}
	if len(d) != 11 || d[0] == '0' || d[2] != '9' {
		return "", false
	}
	return d, true
}

// ValidatePhone checks for a Brazilian mobile number with area code.
func ValidatePhone(phone string) bool {
	_, ok := nationalDigits(phone)
	return ok
}

// FormatPhone renders a mobile number as (DD) DDDDD-DDDD.
func FormatPhone(phone string) (string, bool) {
	d, ok := nationalDigits(phone)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:]), true
}

// PhoneToE164 converts a stored phone to +55DDNNNNNNNNN, or "" when it is not
// a valid mobile number.
func PhoneToE164(phone string) string {
	d, ok := nationalDigits(phone)
	if !ok {
		return ""
	}
	return "+55" + d
}
