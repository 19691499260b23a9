package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DocumentMetadata holds the fields written back into a PDF's metadata.
// Empty fields are left untouched in the document.
type DocumentMetadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// MetadataWriter persists citation metadata into a document, replacing
// prior values for the supplied keys only.
type MetadataWriter interface {
	Write(ctx context.Context, path string, meta DocumentMetadata) error
}

// ErrExifToolMissing indicates exiftool is not installed.
var ErrExifToolMissing = errors.New("exiftool not found in PATH")

// ExifToolWriter writes PDF metadata by shelling out to exiftool, keeping
// the container format handling outside this codebase.
type ExifToolWriter struct {
	binary string
}

// NewExifToolWriter locates the exiftool binary.
func NewExifToolWriter() (*ExifToolWriter, error) {
	bin, err := exec.LookPath("exiftool")
	if err != nil {
		return nil, ErrExifToolMissing
	}
	return &ExifToolWriter{binary: bin}, nil
}

// exifArgs builds the exiftool argument list for the non-empty fields
// of meta, without the trailing file path.
func exifArgs(meta DocumentMetadata) []string {
	args := []string{"-overwrite_original"}
	for _, field := range []struct{ tag, value string }{
		{"Title", meta.Title},
		{"Author", meta.Author},
		{"Subject", meta.Subject},
		{"Keywords", meta.Keywords},
	} {
		if field.value != "" {
			args = append(args, fmt.Sprintf("-%s=%s", field.tag, field.value))
		}
	}
	return args
}

// Write applies the non-empty fields of meta to the PDF at path.
// With no non-empty fields it is a no-op.
func (w *ExifToolWriter) Write(ctx context.Context, path string, meta DocumentMetadata) error {
	args := exifArgs(meta)
	if len(args) == 1 {
		return nil
	}
	args = append(args, path)

	cmd := exec.CommandContext(ctx, w.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("exiftool: %v: %s", err, msg)
		}
		return fmt.Errorf("exiftool: %w", err)
	}
	return nil
}
