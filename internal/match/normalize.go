// Package match resolves free-text account phrases against directory keys.
package match

import "strings"

var dashReplacer = strings.NewReplacer("-", " ", "_", " ", "–", " ", "—", " ")

// Normalize lower-cases a name, collapses dash/underscore/en-dash/em-dash
// variants and repeated whitespace to single spaces, and trims. Idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	return strings.Join(strings.Fields(dashReplacer.Replace(strings.ToLower(text))), " ")
}
