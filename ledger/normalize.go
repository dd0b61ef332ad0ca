package ledger

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeAccount canonicalizes a colon-delimited account name:
// each segment gets its first rune uppercased and the remainder
// lowercased, single-rune segments are uppercased entirely. An empty
// segment is an error, surrounding whitespace is stripped per segment.
func NormalizeAccount(name string) (string, error) {
	segments := strings.Split(name, ":")

	for i, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return "", fmt.Errorf("account name %q has an empty segment", name)
		}

		runes := []rune(segment)
		if len(runes) == 1 {
			segments[i] = strings.ToUpper(segment)
			continue
		}

		segments[i] = string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
	}

	return strings.Join(segments, ":"), nil
}
