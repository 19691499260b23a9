// Package pdf reads page text and Info-dictionary metadata from PDF
// files, and writes citation metadata back via exiftool.
package pdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jgkarlin/renamepdf/internal/citation"
)

// Errors distinguishing document-source failure modes.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrUnreadable indicates the file exists but cannot be parsed as a PDF.
	ErrUnreadable = errors.New("unreadable or corrupt PDF")
)

// Extract returns the plain text of the first maxPages pages and the
// Info-dictionary metadata of the PDF at path. A maxPages <= 0 reads every
// page. Pages that fail to render are skipped; extraction is best-effort
// per page.
func Extract(path string, maxPages int) (string, citation.Metadata, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", citation.Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", citation.Metadata{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return extract(path, maxPages)
}

func extract(path string, maxPages int) (text string, meta citation.Metadata, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", citation.Metadata{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	meta = readInfo(r)

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	return builder.String(), meta, nil
}

// readInfo reads the document Info dictionary from the trailer. Absent
// entries map to empty strings.
func readInfo(r *pdf.Reader) citation.Metadata {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return citation.Metadata{}
	}
	return citation.Metadata{
		Title:    infoString(info, "Title"),
		Author:   infoString(info, "Author"),
		Subject:  infoString(info, "Subject"),
		Keywords: infoString(info, "Keywords"),
		Producer: infoString(info, "Producer"),
		Creator:  infoString(info, "Creator"),
	}
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	return v.RawString()
}
