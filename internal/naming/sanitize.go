package naming

import (
	"regexp"
	"strings"
)

// Extension is the extension Sanitize guarantees on its output.
const Extension = ".pdf"

// FallbackName replaces candidates that sanitize down to nothing.
const FallbackName = "unnamed_document"

// colonRun matches a colon with any surrounding whitespace.
var colonRun = regexp.MustCompile(`\s*:\s*`)

// hyphenRun matches two or more hyphens, absorbing interleaved and
// surrounding spaces.
var hyphenRun = regexp.MustCompile(`\s*-(\s*-)+\s*`)

// reservedNames are device names Windows refuses as file stems.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
}

// Sanitize makes a candidate filename safe for cross-platform storage.
// Any trailing ".pdf" extension on the candidate is ignored; Sanitize
// always appends its own. The result is non-empty, ends in exactly one
// ".pdf", contains no characters forbidden on major filesystems, and is
// never a reserved device name. Sanitize is idempotent: re-sanitizing a
// returned name changes nothing.
func Sanitize(name string) string {
	base := stripExtension(name)

	// Colons become hyphens before the forbidden-character sweep so the
	// "Re: Ethics" -> "Re-Ethics" shape survives.
	base = colonRun.ReplaceAllString(base, "-")

	// Whitespace-family separators become hyphens; regular spaces stay.
	base = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r', '\v', '\f':
			return '-'
		}
		return r
	}, base)

	// Drop forbidden and remaining control characters.
	base = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, base)

	base = hyphenRun.ReplaceAllString(base, "-")

	// The cleanup steps can uncover a ".pdf" the leading strip missed,
	// as in "report.pdf " or "report.p*df". Strip and trim until stable
	// so only the appended extension remains.
	for {
		next := strings.Trim(stripExtension(base), ". ")
		if next == base {
			break
		}
		base = next
	}

	if reservedNames[strings.ToUpper(base)] {
		base = "_" + base
	}
	if base == "" {
		base = FallbackName
	}

	return base + Extension
}

// stripExtension removes any trailing ".pdf" suffixes, case-insensitively.
func stripExtension(s string) string {
	for len(s) >= len(Extension) && strings.EqualFold(s[len(s)-len(Extension):], Extension) {
		s = s[:len(s)-len(Extension)]
	}
	return s
}
