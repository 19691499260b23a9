package pdf

import (
	"reflect"
	"testing"
)

func TestExifArgs(t *testing.T) {
	tests := []struct {
		name string
		meta DocumentMetadata
		want []string
	}{
		{
			name: "all fields",
			meta: DocumentMetadata{
				Title:    "Deep Work",
				Author:   "Cal Newport",
				Subject:  "Grand Central Publishing (2016)",
				Keywords: "first edition",
			},
			want: []string{
				"-overwrite_original",
				"-Title=Deep Work",
				"-Author=Cal Newport",
				"-Subject=Grand Central Publishing (2016)",
				"-Keywords=first edition",
			},
		},
		{
			name: "empty fields skipped",
			meta: DocumentMetadata{Title: "Deep Work"},
			want: []string{"-overwrite_original", "-Title=Deep Work"},
		},
		{
			name: "no fields",
			meta: DocumentMetadata{},
			want: []string{"-overwrite_original"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exifArgs(tt.meta); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("exifArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewExifToolWriterMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := NewExifToolWriter(); err != ErrExifToolMissing {
		t.Errorf("expected ErrExifToolMissing, got %v", err)
	}
}
