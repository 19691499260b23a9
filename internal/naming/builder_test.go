package naming

import (
	"strings"
	"testing"
	"unicode"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		author string
		year   string
		title  string
		want   string
	}{
		{
			name:   "all components",
			author: "Cal Newport",
			year:   "2016",
			title:  "Deep Work",
			want:   "Cal Newport.2016.Deep Work",
		},
		{
			name:   "comma triggers et al",
			author: "J. Smith, A. Lee",
			year:   "2020",
			title:  "Shared Effort",
			want:   "J. Smith et al.2020.Shared Effort",
		},
		{
			name:   "single author verbatim",
			author: "Ursula K. Le Guin",
			title:  "The Dispossessed",
			want:   "Ursula K. Le Guin.The Dispossessed",
		},
		{
			name:  "year keeps digits only",
			year:  "c. 2016 (reprint)",
			title: "Essays",
			want:  "2016.Essays",
		},
		{
			name:  "year truncated to four digits",
			year:  "20169",
			title: "Essays",
			want:  "2016.Essays",
		},
		{
			name:  "year with no digits omitted",
			year:  "n.d.",
			title: "Essays",
			want:  "Essays",
		},
		{
			name:  "title whitespace collapsed",
			title: "Deep \t Work   Rules",
			want:  "Deep Work Rules",
		},
		{
			name: "all empty",
			want: "",
		},
		{
			name:   "empty title skipped without dangling separator",
			author: "Newport",
			year:   "2016",
			want:   "Newport.2016",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.author, tt.year, tt.title, DefaultMaxLength)
			if got != tt.want {
				t.Errorf("Build(%q, %q, %q) = %q, want %q", tt.author, tt.year, tt.title, got, tt.want)
			}
		})
	}
}

func TestBuildNoEmptySegments(t *testing.T) {
	inputs := [][3]string{
		{"", "", "Title Only"},
		{"Author", "", ""},
		{"", "2001", ""},
		{"A, B", "n.d.", "  spaced   title  "},
	}
	for _, in := range inputs {
		got := Build(in[0], in[1], in[2], DefaultMaxLength)
		if strings.Contains(got, "..") {
			t.Errorf("Build(%v) = %q contains adjacent separators", in, got)
		}
		if strings.HasPrefix(got, ".") || strings.HasSuffix(got, ".") {
			// "J. Smith et al" style components legitimately contain
			// periods, but join edges must stay clean for empty inputs.
			t.Errorf("Build(%v) = %q has dangling separator", in, got)
		}
	}
}

func TestBuildTruncation(t *testing.T) {
	title := strings.Repeat("wordy ", 60) // 360 chars
	max := 50

	got := Build("Author", "2020", title, max)

	if len([]rune(got)) > max {
		t.Fatalf("len = %d, want <= %d", len([]rune(got)), max)
	}
	// Truncation must land on a word boundary: the full build of the same
	// inputs continues with a separator at the cut point.
	full := Build("Author", "2020", title, 10000)
	if !strings.HasPrefix(full, got) {
		t.Fatalf("truncated %q is not a prefix of %q", got, full)
	}
	next := []rune(full)[len([]rune(got))]
	if !unicode.IsSpace(next) {
		t.Errorf("character after cut is %q, want whitespace", next)
	}
	if strings.HasSuffix(got, " ") {
		t.Errorf("result %q ends with whitespace", got)
	}
}

func TestBuildShortInputUntouched(t *testing.T) {
	got := Build("A", "2020", "Short", 225)
	if got != "A.2020.Short" {
		t.Errorf("got %q, short inputs must not be truncated", got)
	}
}
