package bibweb

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeSpace NFKC-normalizes s and collapses every run of
// whitespace (including newlines left over from joined entry bodies)
// into a single space, trimming the ends.
func normalizeSpace(s string) string {
	return norm.NFKC.String(strings.Join(strings.Fields(s), " "))
}
