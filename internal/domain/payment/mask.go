package payment

import "strings"

const visibleCodeSuffix = 2

// MaskCode hides all but the last two characters of a security code.
func MaskCode(code string) string {
	r := []rune(code)
	if len(r) <= visibleCodeSuffix {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-visibleCodeSuffix) + string(r[len(r)-visibleCodeSuffix:])
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return MaskCode(email)
	}
	local := []rune(email[:at])
	return string(local[0]) + strings.Repeat("*", len(local)-1) + email[at:]
}
