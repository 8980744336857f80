package models

import "regexp"

var emailRx = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like an email address that fits
// the column size.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRx.MatchString(s)
}
