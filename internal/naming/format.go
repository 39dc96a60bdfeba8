package naming

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// MaxTitleLength is the number of UTF-16 code units of a title kept in a name.
const MaxTitleLength = 30

// ExtractInitials builds campaigner initials from a display name.
// "john  doe smith" becomes "JDS"; an empty name becomes "NA".
func ExtractInitials(fullName string) string {
	if fullName == "" {
		return "NA"
	}

	var b strings.Builder
	for _, token := range strings.Fields(fullName) {
		for _, r := range token {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}

// FormatTitle turns free text into the title segment of a campaign name.
//
// The title is truncated before whitespace is collapsed, so a space at the
// truncation boundary turns into a trailing underscore that is then removed.
func FormatTitle(title string) string {
	if title == "" {
		return ""
	}

	truncated := truncateCodeUnits(title, MaxTitleLength)

	var b strings.Builder
	b.Grow(len(truncated))
	inSpace := false
	for _, r := range truncated {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		if isNameRune(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimRight(b.String(), "_")
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	}
	return false
}

// truncateCodeUnits keeps at most limit UTF-16 code units of s without
// splitting a rune.
func truncateCodeUnits(s string, limit int) string {
	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > limit {
			return s[:i]
		}
		units += n
	}
	return s
}

func codeUnitLen(s string) int {
	units := 0
	for _, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
	}
	return units
}
