package domain

import (
	"regexp"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}
