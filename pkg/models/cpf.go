package models

import "strings"

// NormalizeCPF strips everything that is not a digit, so "123.456.789-01" and
// "12345678901" compare equal.
func NormalizeCPF(cpf string) string {
	var b strings.Builder
	b.Grow(len(cpf))
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF renders 11 normalized digits in the 000.000.000-00 display form.
// Anything that is not exactly 11 digits is returned unchanged.
func FormatCPF(cpf string) string {
	digits := NormalizeCPF(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return digits[0:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:11]
}
