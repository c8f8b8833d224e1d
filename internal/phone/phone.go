package phone

import "errors"

const (
	MinDigits = 9
	MaxDigits = 15
)

var ErrInvalidPhoneNumber = errors.New("invalid phone number format")

// Sanitize drops every byte that is not an ASCII digit.
func Sanitize(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			out = append(out, c)
		}
	}
	return string(out)
}

// Validate returns the sanitized number, or ErrInvalidPhoneNumber when the
// digit count falls outside [MinDigits, MaxDigits].
func Validate(raw string) (string, error) {
	digits := Sanitize(raw)
	if len(digits) < MinDigits || len(digits) > MaxDigits {
		return "", ErrInvalidPhoneNumber
	}
	return digits, nil
}
