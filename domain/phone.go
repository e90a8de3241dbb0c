package domain

import "strings"

// CountryCode is the prefix the messaging gateway requires, without "+".
const CountryCode = "91"

// NormalizePhone maps a raw phone string to the gateway format: a leading
// "+91" loses only the "+", a leading "91" is kept, anything else gets "91"
// prepended. No other validation is performed.
func NormalizePhone(raw string) string {
	switch {
	case strings.HasPrefix(raw, "+"+CountryCode):
		return raw[1:]
	case strings.HasPrefix(raw, CountryCode):
		return raw
	default:
		return CountryCode + raw
	}
}
