package tools

import "regexp"

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,32}$`)

func ValidateUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// CheckPassword devolve o nome do campo problemático ("" quando ok).
func CheckPassword(password string) string {
	if len(password) < 6 {
		return "password"
	}
	return ""
}
