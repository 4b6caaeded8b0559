package lead

import "strings"

// Valid reports whether all required fields are present after trimming.
// Optional fields are not checked.
func Valid(l Lead) bool {
	for _, f := range []string{l.Name, l.Email, l.Company, l.Interest} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// ValidEmail is a syntactic sanity check, not RFC 5322: the address must
// contain "@" and the part after the last "@" must contain ".". Anything
// stricter over-rejects addresses users actually dictate over voice.
func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}
