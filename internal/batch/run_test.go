package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jgkarlin/renamepdf/internal/citation"
)

// fakeSource returns canned text and metadata for every file.
type fakeSource struct {
	meta citation.Metadata
	err  error
}

func (s fakeSource) Extract(path string, maxPages int) (string, citation.Metadata, error) {
	if s.err != nil {
		return "", citation.Metadata{}, s.err
	}
	return "sample page text", s.meta, nil
}

// fakeExtractor maps source filenames to extractions.
type fakeExtractor struct {
	byName map[string]citation.Extraction
	err    error
}

func (e fakeExtractor) Extract(ctx context.Context, text, filename string) (citation.Extraction, error) {
	if e.err != nil {
		return citation.Extraction{}, e.err
	}
	return e.byName[filename], nil
}

func noMatchLookup() citation.Lookup {
	return citation.LookupFunc(func(ctx context.Context, query string) (*citation.LookupResult, error) {
		return nil, nil
	})
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func complete(title, author, year, publisher string) citation.Extraction {
	return citation.Extraction{Fields: citation.Fields{
		Title:     title,
		Author:    author,
		Year:      citation.YearString(year),
		Publisher: publisher,
	}}
}

func TestRunRenames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scan001.pdf")

	runner := &Runner{
		Source: fakeSource{},
		Extractor: fakeExtractor{byName: map[string]citation.Extraction{
			"scan001.pdf": complete("Deep Work", "Cal Newport", "2016", "Grand Central"),
		}},
		Lookup: noMatchLookup(),
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 1 || summary.Successful != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	want := filepath.Join(dir, "Cal Newport.2016.Deep Work.pdf")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected renamed file at %q: %v", want, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan001.pdf")); !os.IsNotExist(err) {
		t.Error("source file should be gone after rename")
	}
}

// cancelingExtractor cancels the run's context on its first call, then
// delegates to the inner extractor.
type cancelingExtractor struct {
	inner  Extractor
	cancel context.CancelFunc
}

func (e cancelingExtractor) Extract(ctx context.Context, text, filename string) (citation.Extraction, error) {
	e.cancel()
	return e.inner.Extract(ctx, text, filename)
}

func TestRunStopsBetweenFilesOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aaa.pdf")
	writeFile(t, dir, "bbb.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ext := complete("Deep Work", "Cal Newport", "2016", "Grand Central")
	runner := &Runner{
		Source: fakeSource{},
		Extractor: cancelingExtractor{
			inner: fakeExtractor{byName: map[string]citation.Extraction{
				"aaa.pdf": ext,
				"bbb.pdf": ext,
			}},
			cancel: cancel,
		},
		Lookup: noMatchLookup(),
	}

	summary, err := runner.Run(ctx, dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// The file in flight when the context was canceled completes; the
	// rest of the batch is never attempted or counted.
	if summary.Total != 1 || len(summary.Results) != 1 {
		t.Fatalf("summary = %+v, want exactly one attempted file", summary)
	}
	if summary.Results[0].Source != "aaa.pdf" {
		t.Errorf("attempted %q, want aaa.pdf", summary.Results[0].Source)
	}
	if _, err := os.Stat(filepath.Join(dir, "bbb.pdf")); err != nil {
		t.Errorf("remaining file should be untouched: %v", err)
	}
}

func TestRunCollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "Cal Newport.2016.Deep Work.pdf")

	ext := complete("Deep Work", "Cal Newport", "2016", "GC")
	runner := &Runner{
		Source: fakeSource{},
		Extractor: fakeExtractor{byName: map[string]citation.Extraction{
			"a.pdf":                          ext,
			"Cal Newport.2016.Deep Work.pdf": ext,
		}},
		Lookup: noMatchLookup(),
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 0 {
		t.Fatalf("summary = %+v, errors = %v", summary, summary.Errors)
	}

	if _, err := os.Stat(filepath.Join(dir, "Cal Newport.2016.Deep Work_1.pdf")); err != nil {
		t.Errorf("expected collision suffix _1: %v", err)
	}
	// The file already carrying the target name is a no-op rename.
	for _, r := range summary.Results {
		if r.Source == "Cal Newport.2016.Deep Work.pdf" && r.Status != StatusUnchanged {
			t.Errorf("existing correctly-named file: status = %q, want %q", r.Status, StatusUnchanged)
		}
	}
}

func TestRunFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.pdf")
	writeFile(t, dir, "good.pdf")

	extractErr := errors.New("extraction authentication error")
	runner := &Runner{
		Source: fakeSource{},
		Extractor: fakeExtractor{
			byName: map[string]citation.Extraction{
				"good.pdf": complete("T", "A", "2020", "P"),
			},
		},
		Lookup: noMatchLookup(),
	}
	// Fail only the first file alphabetically.
	runner.Extractor = failFirstExtractor{
		failName: "bad.pdf",
		err:      extractErr,
		inner:    runner.Extractor,
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 2 || summary.Successful != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0], "bad.pdf") {
		t.Errorf("errors = %v, want one entry naming bad.pdf", summary.Errors)
	}
	if _, err := os.Stat(filepath.Join(dir, "A.2020.T.pdf")); err != nil {
		t.Errorf("good file should still be renamed: %v", err)
	}
}

type failFirstExtractor struct {
	failName string
	err      error
	inner    Extractor
}

func (e failFirstExtractor) Extract(ctx context.Context, text, filename string) (citation.Extraction, error) {
	if filename == e.failName {
		return citation.Extraction{}, e.err
	}
	return e.inner.Extract(ctx, text, filename)
}

func TestRunMalformedExtractionFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "draft.pdf")

	runner := &Runner{
		Source: fakeSource{meta: citation.Metadata{
			Title:  "[Untitled Draft]",
			Author: "J. Smith, A. Lee",
		}},
		Extractor: fakeExtractor{byName: map[string]citation.Extraction{
			"draft.pdf": {Malformed: true},
		}},
		Lookup: noMatchLookup(),
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Successful != 1 {
		t.Fatalf("summary = %+v, errors = %v", summary, summary.Errors)
	}

	if _, err := os.Stat(filepath.Join(dir, "J. Smith et al.Untitled Draft.pdf")); err != nil {
		t.Errorf("expected metadata-derived name: %v", err)
	}
}

func TestRunEmptyRecordUsesFallbackName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blank.pdf")

	runner := &Runner{
		Source:    fakeSource{},
		Extractor: fakeExtractor{byName: map[string]citation.Extraction{}},
		Lookup:    noMatchLookup(),
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Successful != 1 {
		t.Fatalf("summary = %+v, errors = %v", summary, summary.Errors)
	}
	if _, err := os.Stat(filepath.Join(dir, "unnamed_document.pdf")); err != nil {
		t.Errorf("expected fallback name: %v", err)
	}
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scan.pdf")

	runner := &Runner{
		Source: fakeSource{},
		Extractor: fakeExtractor{byName: map[string]citation.Extraction{
			"scan.pdf": complete("T", "A", "2020", "P"),
		}},
		Lookup:  noMatchLookup(),
		Options: Options{DryRun: true},
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Results[0].Status != StatusWouldRename {
		t.Errorf("status = %q, want %q", summary.Results[0].Status, StatusWouldRename)
	}
	if _, err := os.Stat(filepath.Join(dir, "scan.pdf")); err != nil {
		t.Error("dry run must not rename")
	}
}

func TestRunPermissionFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed when running as root")
	}

	dir := t.TempDir()
	path := writeFile(t, dir, "locked.pdf")
	if err := os.Chmod(path, 0o400); err != nil {
		t.Fatal(err)
	}

	runner := &Runner{
		Source:    fakeSource{},
		Extractor: fakeExtractor{},
		Lookup:    noMatchLookup(),
	}

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("summary = %+v, want the locked file counted as failed", summary)
	}
	if len(summary.Errors) == 0 || !strings.Contains(summary.Errors[0], "permission") {
		t.Errorf("errors = %v, want a permission message", summary.Errors)
	}
}

func TestRunIgnoresNonPDFFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt")
	writeFile(t, dir, "Paper.PDF")

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != "Paper.PDF" {
		t.Errorf("Discover = %v, want just Paper.PDF (case-insensitive match)", files)
	}
}

func TestRunInvalidDirectory(t *testing.T) {
	runner := &Runner{
		Source:    fakeSource{},
		Extractor: fakeExtractor{},
		Lookup:    noMatchLookup(),
	}
	if _, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
