package format

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail is a loose shape check: something@something.tld.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
