package citation

import "strings"

// CleanValue normalizes a raw metadata field value. It trims surrounding
// whitespace and strips a single layer of leading/trailing square brackets,
// which some PDF producers use to mark uncertain titles. A value that is
// all whitespace after cleaning maps to "". Total over its input domain:
// there are no error conditions.
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.TrimSpace(s)
}

// CleanMetadata returns a copy of meta with every field passed through
// CleanValue.
func CleanMetadata(meta Metadata) Metadata {
	return Metadata{
		Title:    CleanValue(meta.Title),
		Author:   CleanValue(meta.Author),
		Subject:  CleanValue(meta.Subject),
		Keywords: CleanValue(meta.Keywords),
		Producer: CleanValue(meta.Producer),
		Creator:  CleanValue(meta.Creator),
	}
}
