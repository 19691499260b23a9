package citation

import (
	"context"
	"fmt"
	"strings"
)

// Reconcile merges a language-model extraction, document metadata, and an
// optional bibliographic lookup into one canonical Record.
//
// Merge policy, in order:
//  1. A malformed extraction is treated as entirely empty.
//  2. Fill-only merge: metadata supplies title/author only where the
//     extraction left them empty. Extraction values are never overwritten
//     by metadata.
//  3. When extraction and metadata both supply a non-empty title or author
//     and the values differ (case-sensitive), a disagreement note is
//     recorded and a lookup is requested.
//  4. A lookup is also requested when any of title, author, year, or
//     publisher is still empty.
//  5. A successful lookup match overwrites every field it supplies with a
//     non-empty value; lookup results outrank both other sources. Zero
//     matches and lookup failures are recorded as notes and never fatal.
//
// Reconcile is pure apart from the single outbound lookup call.
func Reconcile(ctx context.Context, ext Extraction, meta Metadata, lk Lookup) Record {
	rec := Record{}

	if ext.Malformed {
		rec.Notes = append(rec.Notes, "extraction response malformed; falling back to document metadata")
	} else {
		rec.Title = ext.Fields.Title
		rec.Author = ext.Fields.Author
		rec.Year = string(ext.Fields.Year)
		rec.Publisher = ext.Fields.Publisher
		rec.Journal = ext.Fields.Journal
		rec.OtherInfo = ext.Fields.OtherInfo
	}

	metaTitle := CleanValue(meta.Title)
	metaAuthor := CleanValue(meta.Author)

	needLookup := false

	// Fill-only merge and disagreement detection for title/author.
	if rec.Title == "" {
		rec.Title = metaTitle
	} else if metaTitle != "" && metaTitle != rec.Title {
		rec.Notes = append(rec.Notes, fmt.Sprintf("title disagreement: extraction %q vs metadata %q", rec.Title, metaTitle))
		needLookup = true
	}
	if rec.Author == "" {
		rec.Author = metaAuthor
	} else if metaAuthor != "" && metaAuthor != rec.Author {
		rec.Notes = append(rec.Notes, fmt.Sprintf("author disagreement: extraction %q vs metadata %q", rec.Author, metaAuthor))
		needLookup = true
	}

	if rec.Title == "" || rec.Author == "" || rec.Year == "" || rec.Publisher == "" {
		needLookup = true
	}

	if needLookup && lk != nil {
		query := strings.TrimSpace(rec.Title + " " + rec.Author)
		match, err := lk.Search(ctx, query)
		switch {
		case err != nil:
			rec.Notes = append(rec.Notes, fmt.Sprintf("lookup failed: %v", err))
		case match == nil:
			rec.Notes = append(rec.Notes, "lookup found no match")
		default:
			applyLookup(&rec, match)
			rec.Notes = append(rec.Notes, "supplemented via bibliographic lookup")
		}
	}

	return rec
}

// applyLookup overwrites record fields with every non-empty value the
// lookup match supplies.
func applyLookup(rec *Record, match *LookupResult) {
	setIfPresent(&rec.Title, match.Title)
	setIfPresent(&rec.Author, match.Author)
	setIfPresent(&rec.Year, match.Year)
	setIfPresent(&rec.Publisher, match.Publisher)
	setIfPresent(&rec.Journal, match.Journal)
	setIfPresent(&rec.Volume, match.Volume)
	setIfPresent(&rec.Issue, match.Issue)
	setIfPresent(&rec.Pages, match.Pages)
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
