package dt0

import (
	"net"
	"strings"
	"unicode"
)

// MaskType represents a known data format with masking rules.
type MaskType string

const (
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskType = "card"  // 4111111111111111 -> ************1111
	MaskIP    MaskType = "ip"    // 192.168.1.100 -> 192.168.xxx.xxx
	MaskUUID  MaskType = "uuid"  // 550e8400-e29b-41d4-a716-446655440000 -> 550e8400-****-****-****-************
	MaskIBAN  MaskType = "iban"  // GB82WEST12345698765432 -> GB82************5432
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

// Masker applies content-aware masking.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls f(value).
func (f MaskerFunc) Mask(value string) string { return f(value) }

// builtinMaskers returns the default masker registry.
func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskSSN:   MaskerFunc(maskSSN),
		MaskEmail: MaskerFunc(maskEmail),
		MaskPhone: MaskerFunc(maskPhone),
		MaskCard:  MaskerFunc(maskCard),
		MaskIP:    MaskerFunc(maskIP),
		MaskUUID:  MaskerFunc(maskUUID),
		MaskIBAN:  MaskerFunc(maskIBAN),
		MaskName:  MaskerFunc(maskName),
	}
}

func stars(s string) string { return strings.Repeat("*", len(s)) }

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lastDigits returns the last four digits of s, or false if s has fewer.
func lastDigits(s string) (string, bool) {
	d := digitsOf(s)
	if len(d) < 4 {
		return "", false
	}
	return d[len(d)-4:], true
}

func maskSSN(v string) string {
	last, ok := lastDigits(v)
	if !ok {
		return stars(v)
	}
	return "***-**-" + last
}

func maskEmail(v string) string {
	at := strings.LastIndex(v, "@")
	if at < 1 {
		return stars(v)
	}
	return v[:1] + "***" + v[at:]
}

func maskPhone(v string) string {
	last, ok := lastDigits(v)
	if !ok {
		return stars(v)
	}
	n := len(digitsOf(v))
	switch {
	case strings.HasPrefix(v, "(") && n >= 10:
		return "(***) ***-" + last
	case n >= 10:
		return "***-***-" + last
	default:
		return "***-" + last
	}
}

func maskCard(v string) string {
	last, ok := lastDigits(v)
	if !ok {
		return stars(v)
	}
	n := len(digitsOf(v))
	for _, sep := range []string{" ", "-"} {
		if strings.Contains(v, sep) {
			groups := make([]string, (n-4+3)/4, (n-4+3)/4+1)
			for i := range groups {
				groups[i] = "****"
			}
			return strings.Join(append(groups, last), sep)
		}
	}
	return strings.Repeat("*", n-4) + last
}

func maskIP(v string) string {
	ip := net.ParseIP(v)
	if ip == nil {
		return stars(v)
	}
	if v4 := ip.To4(); v4 != nil && strings.Contains(v, ".") {
		parts := strings.Split(v, ".")
		return parts[0] + "." + parts[1] + ".xxx.xxx"
	}
	full := ip.To16()
	groups := make([]string, 0, 4)
	for i := 0; i < 8; i += 2 {
		groups = append(groups, hex4(full[i], full[i+1]))
	}
	return strings.Join(groups, ":") + ":xxxx:xxxx:xxxx:xxxx"
}

func hex4(hi, lo byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[hi>>4], digits[hi&0x0f], digits[lo>>4], digits[lo&0x0f]})
}

func maskUUID(v string) string {
	parts := strings.Split(v, "-")
	if len(parts) != 5 {
		return stars(v)
	}
	return parts[0] + "-****-****-****-************"
}

func maskIBAN(v string) string {
	if len(v) <= 8 {
		return stars(v)
	}
	return v[:4] + strings.Repeat("*", len(v)-8) + v[len(v)-4:]
}

func maskName(v string) string {
	words := strings.Fields(v)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + strings.Repeat("*", len(r)-1)
	}
	return strings.Join(words, " ")
}
