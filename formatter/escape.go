package formatter

import "strings"

// escapeString escapes double quotes and backslashes so the value can
// be embedded in a quoted ledger string.
func escapeString(s string) string {
	needsEscape := false
	for _, c := range s {
		if c == '"' || c == '\\' {
			needsEscape = true
			break
		}
	}

	if !needsEscape {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)

	for _, c := range s {
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			buf.WriteRune(c)
		}
	}

	return buf.String()
}
