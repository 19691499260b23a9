// Package naming derives safe, bounded-length filenames from reconciled
// citation records.
package naming

import (
	"strings"
	"unicode"
)

// DefaultMaxLength is the default character budget for a built filename,
// excluding the ".pdf" extension.
const DefaultMaxLength = 225

// Build composes a filename base (no extension) from citation components
// in the fixed order author, year, title, joined with ".". Empty components
// are skipped, so the result never contains empty segments or adjacent
// separators.
//
// Author values containing a comma are reduced to the first name plus
// " et al". The year keeps only its digit characters, at most four; with
// no digits the component is omitted. Whitespace runs inside the title
// collapse to single spaces.
//
// The result never exceeds maxLength characters. When truncation is
// needed, it backs off to the nearest preceding whitespace boundary so a
// word is never split. A maxLength <= 0 selects DefaultMaxLength.
func Build(author, year, title string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var components []string
	if author != "" {
		part := author
		if strings.Contains(author, ",") {
			part = strings.TrimSpace(strings.SplitN(author, ",", 2)[0]) + " et al"
		}
		if part != "" {
			components = append(components, part)
		}
	}
	if y := digitsOnly(year, 4); y != "" {
		components = append(components, y)
	}
	if t := strings.Join(strings.Fields(title), " "); t != "" {
		components = append(components, t)
	}

	return truncateAtWord(strings.Join(components, "."), maxLength)
}

// digitsOnly keeps the digit characters of s, truncated to at most max.
func digitsOnly(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == max {
				break
			}
		}
	}
	return b.String()
}

// truncateAtWord cuts s to at most max characters without splitting a
// word: when the character after the cut is not whitespace, the cut backs
// off to the last whitespace before it. With no whitespace to back off to,
// the hard cut stands.
func truncateAtWord(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	cut := runes[:max]
	if !unicode.IsSpace(runes[max]) {
		boundary := -1
		for i := len(cut) - 1; i >= 0; i-- {
			if unicode.IsSpace(cut[i]) {
				boundary = i
				break
			}
		}
		if boundary > 0 {
			cut = cut[:boundary]
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace)
}
