package document

import "regexp"

// Placeholder identifiers substituted when validation fails. Substitution is
// deliberate: downstream entry generation must stay possible even when the
// upstream parser produced a malformed identifier. The balance and total
// invariants are unaffected and remain hard failures.
const (
	PlaceholderVATID = "00000000000"
	PlaceholderTaxID = "XXXXXX00X00X000X"
)

// codiceFiscalePattern: 6 letters, 2 digits, 1 letter, 2 digits, 1 letter,
// 3 digits, 1 letter; case-insensitive.
var codiceFiscalePattern = regexp.MustCompile(`^[A-Za-z]{6}[0-9]{2}[A-Za-z][0-9]{2}[A-Za-z][0-9]{3}[A-Za-z]$`)

// ValidVATNumber reports whether s is a well-formed Partita IVA: 11 digits
// whose weighted checksum is divisible by 10. Digits at even 0-based
// positions are summed directly; digits at odd positions are doubled and
// digit-summed when the double exceeds 9.
func ValidVATNumber(s string) bool {
	if len(s) != 11 {
		return false
	}
	sum := 0
	for i := 0; i < 11; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// ValidTaxCode reports whether s is a well-formed Codice Fiscale.
func ValidTaxCode(s string) bool {
	return codiceFiscalePattern.MatchString(s)
}
