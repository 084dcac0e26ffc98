// Package text provides character cleaning for text that ends up in
// outgoing notifications. The target website decorates scraped values with
// invisible Unicode characters that break message rendering and mail header
// encoding, so every string is normalized before leaving the process.
package text

import "strings"

// cleanReplacer normalizes the invisible characters observed in scraped
// panel output.
var cleanReplacer = strings.NewReplacer(
	"\u00a0", " ", // Non-breaking Space - convert to regular space
	"\u200b", "", // Zero Width Space - remove
	"\ufeff", "", // Byte Order Mark - remove
)

// Clean returns s with non-breaking spaces converted to plain spaces and
// zero-width spaces and byte-order marks removed. Empty input stays empty.
func Clean(s string) string {
	if s == "" {
		return ""
	}

	return cleanReplacer.Replace(s)
}
