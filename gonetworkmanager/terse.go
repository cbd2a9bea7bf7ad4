package gonetworkmanager

import "strings"

// TerseSeparator is the field separator nmcli uses in terse (-t) mode.
const TerseSeparator = ':'

// SplitEscaped splits one line of nmcli terse output into fields.
// A backslash makes the following rune literal and is itself dropped, so
// `\:` and `\\` inside a field survive as ':' and '\'. The final field is
// always emitted, even when empty: a line without separators yields one field.
func SplitEscaped(line string, sep rune) []string {
	var fields []string
	var cur strings.Builder
	escaped := false

	for _, ch := range line {
		if escaped {
			cur.WriteRune(ch)
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case sep:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}

	return append(fields, cur.String())
}

// EscapeField escapes backslashes and sep the way nmcli does in terse mode.
func EscapeField(field string, sep rune) string {
	var b strings.Builder
	b.Grow(len(field))
	for _, ch := range field {
		if ch == '\\' || ch == sep {
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// JoinEscaped is the inverse of SplitEscaped.
func JoinEscaped(fields []string, sep rune) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f, sep)
	}
	return strings.Join(escaped, string(sep))
}
