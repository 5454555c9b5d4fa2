package library

import "strings"

// ValidDNI reports whether dni is exactly eight digits.
func ValidDNI(dni string) bool {
	return len(dni) == 8 && allDigits(dni)
}

// ValidISBN reports whether isbn has 10 or 13 digits once hyphens and
// spaces are stripped.
func ValidISBN(isbn string) bool {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return (len(isbn) == 10 || len(isbn) == 13) && allDigits(isbn)
}

// ValidCDJ reports whether code follows the digits.digits classification
// format, e.g. "813.52".
func ValidCDJ(code string) bool {
	whole, frac, ok := strings.Cut(code, ".")
	if !ok {
		return false
	}
	return whole != "" && frac != "" && allDigits(whole) && allDigits(frac)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
