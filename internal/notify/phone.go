package notify

import "strings"

const DefaultCountryCode = "55"

// NormalizePhone mantém apenas os dígitos e prefixa o código do país.
// Retorna "" quando não sobra nenhum dígito.
func NormalizePhone(countryCode, raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return countryCode + b.String()
}
