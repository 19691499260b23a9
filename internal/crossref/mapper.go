package crossref

import (
	"strconv"
	"strings"

	"github.com/jgkarlin/renamepdf/internal/citation"
)

// MapWork converts a Crossref work into a lookup result. The year comes
// from published-print, falling back to published-online. Absent fields
// map to empty strings.
func MapWork(w Work) citation.LookupResult {
	result := citation.LookupResult{
		Publisher: w.Publisher,
		Volume:    w.Volume,
		Issue:     w.Issue,
		Pages:     w.Page,
	}

	if len(w.Title) > 0 {
		result.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		result.Journal = w.ContainerTitle[0]
	}
	result.Author = joinAuthors(w.Author)

	if year := w.PublishedPrint.Year(); year != 0 {
		result.Year = strconv.Itoa(year)
	} else if year := w.PublishedOnline.Year(); year != 0 {
		result.Year = strconv.Itoa(year)
	}

	return result
}

// joinAuthors formats contributors as "Given Family, Given Family, ...".
func joinAuthors(authors []Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		name := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
