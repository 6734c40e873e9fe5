package cache

import "strings"

// MaxKeyLength bounds a key so it is usable as a file name on common filesystems.
const MaxKeyLength = 255

// Key derives the on-disk file name for url. Every rune outside ASCII
// letters and digits becomes '_' and the result is cut to MaxKeyLength.
// Distinct URLs may share a key.
func Key(url string) string {
	var b strings.Builder
	b.Grow(min(len(url), MaxKeyLength))
	n := 0
	for _, r := range url {
		if n == MaxKeyLength {
			break
		}
		if isKeyRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		n++
	}
	return b.String()
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// isKey reports whether name could have been produced by Key.
func isKey(name string) bool {
	if name == "" || len(name) > MaxKeyLength {
		return false
	}
	for _, r := range name {
		if !isKeyRune(r) && r != '_' {
			return false
		}
	}
	return true
}
