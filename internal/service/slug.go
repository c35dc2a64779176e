package service

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases the title and collapses every run of non-alphanumeric
// characters into a single dash, trimming dashes at both ends. A title made
// entirely of punctuation or whitespace yields the empty string.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// slugToken returns the uniqueness suffix appended to every slug at
// creation time: the creation timestamp in base36. Collisions left over
// (identical titles in the same millisecond) are resolved by the
// store-level unique index plus a retry with a random token.
func slugToken(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36)
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}
