package common

import "unicode/utf8"

// Truncate returns the first n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n])
}
