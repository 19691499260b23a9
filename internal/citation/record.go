// Package citation defines the bibliographic data model and the
// reconciliation of extraction, document metadata, and lookup results
// into a single canonical record.
package citation

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Fields holds the bibliographic fields produced by the language-model
// extraction. JSON tags match the extraction contract; every value is a
// string, with "" for missing data.
type Fields struct {
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Year      YearString `json:"year"`
	Publisher string     `json:"publisher"`
	Journal   string     `json:"journal"`
	OtherInfo string     `json:"other_info"`
}

// YearString is a string that also accepts a JSON number when decoding.
// Models frequently return the year as a bare number.
type YearString string

// UnmarshalJSON decodes either a JSON string or a JSON number.
func (y *YearString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = YearString(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = YearString(strconv.Itoa(n))
	return nil
}

// Extraction is the result of a language-model extraction call.
// When Malformed is true the response failed to parse as structured data
// and Fields must be ignored entirely, never partially trusted.
type Extraction struct {
	Fields    Fields
	Malformed bool
}

// Metadata holds the raw metadata fields read from a document's Info
// dictionary. Entries are independently present or absent; values are
// uncleaned (see CleanValue).
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Producer string
	Creator  string
}

// LookupResult is a best-match record from a bibliographic database.
type LookupResult struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Year      string `json:"year,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Journal   string `json:"journal,omitempty"`
	Volume    string `json:"volume,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Pages     string `json:"pages,omitempty"`
}

// Lookup queries an external bibliographic database for a single best
// match. A nil result with a nil error means zero matches were found.
type Lookup interface {
	Search(ctx context.Context, query string) (*LookupResult, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, query string) (*LookupResult, error)

// Search implements Lookup.
func (f LookupFunc) Search(ctx context.Context, query string) (*LookupResult, error) {
	return f(ctx, query)
}

// Record is the reconciled canonical citation for one document.
// Every field is a string; missing data is the empty string. Notes carry
// human-readable disagreement and fallback annotations in the order they
// were recorded. They feed the metadata audit trail and never influence
// control flow.
type Record struct {
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Year      string   `json:"year"`
	Publisher string   `json:"publisher"`
	Journal   string   `json:"journal"`
	OtherInfo string   `json:"other_info,omitempty"`
	Volume    string   `json:"volume,omitempty"`
	Issue     string   `json:"issue,omitempty"`
	Pages     string   `json:"pages,omitempty"`
	Notes     []string `json:"notes,omitempty"`
}

// Citation formats the record as a single human-readable line, used for
// the metadata Subject field and human output.
func (r Record) Citation() string {
	var parts []string
	if r.Author != "" {
		parts = append(parts, r.Author)
	}
	if r.Year != "" {
		parts = append(parts, r.Year)
	}
	if r.Title != "" {
		parts = append(parts, r.Title)
	}
	if r.Journal != "" {
		parts = append(parts, r.Journal)
	} else if r.Publisher != "" {
		parts = append(parts, r.Publisher)
	}
	return strings.Join(parts, ". ")
}
