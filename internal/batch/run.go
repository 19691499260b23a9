// Package batch orchestrates a directory-wide rename run: per file,
// extract, reconcile, build a filename, sanitize, and rename, with
// per-file failure isolation.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgkarlin/renamepdf/internal/citation"
	"github.com/jgkarlin/renamepdf/internal/naming"
	"github.com/jgkarlin/renamepdf/internal/pdf"
)

// Source yields page text and document metadata for a file path.
type Source interface {
	Extract(path string, maxPages int) (string, citation.Metadata, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(path string, maxPages int) (string, citation.Metadata, error)

// Extract implements Source.
func (f SourceFunc) Extract(path string, maxPages int) (string, citation.Metadata, error) {
	return f(path, maxPages)
}

// Extractor produces a bibliographic extraction from page text.
type Extractor interface {
	Extract(ctx context.Context, text, filename string) (citation.Extraction, error)
}

// Options control a batch run.
type Options struct {
	// MaxPages bounds page-text extraction per file; <= 0 means all pages.
	MaxPages int

	// MaxNameLength is the filename character budget excluding the
	// extension; <= 0 selects naming.DefaultMaxLength.
	MaxNameLength int

	// DryRun reports target names without renaming or writing metadata.
	DryRun bool

	// WriteMetadata persists the reconciled citation into each renamed
	// file via Runner.Writer.
	WriteMetadata bool

	// Logf receives per-file progress lines; nil disables them.
	Logf func(format string, args ...any)
}

// Runner holds the collaborators for a batch run. Source, Extractor, and
// Lookup are required; Writer only when WriteMetadata is set.
type Runner struct {
	Source    Source
	Extractor Extractor
	Lookup    citation.Lookup
	Writer    pdf.MetadataWriter
	Options   Options
}

// Discover lists the PDF files in dir (extension matched
// case-insensitively, non-recursive) in sorted order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Run processes every PDF file in dir. One file's failure never aborts
// the batch; the only fatal error is an unreadable directory. Context
// cancellation stops the run between files.
func (r *Runner) Run(ctx context.Context, dir string) (Summary, error) {
	var summary Summary

	files, err := Discover(dir)
	if err != nil {
		return summary, err
	}

	for i, name := range files {
		if ctx.Err() != nil {
			break
		}

		r.logf("[%d/%d] %s", i+1, len(files), name)
		summary.Total++

		result := r.processFile(ctx, dir, name)
		summary.Results = append(summary.Results, result)
		if result.Error != "" {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", name, result.Error))
			r.logf("  failed: %s", result.Error)
		} else {
			summary.Successful++
			r.logf("  %s -> %s", result.Status, result.Target)
		}
	}

	return summary, nil
}

// processFile runs the per-file pipeline. All failures, including panics
// from lower layers, are converted to a failed Result here so the batch
// can continue.
func (r *Runner) processFile(ctx context.Context, dir, name string) (result Result) {
	result = Result{Source: name}
	defer func() {
		if rec := recover(); rec != nil {
			result.Status = StatusFailed
			result.Error = fmt.Sprintf("unexpected failure: %v", rec)
		}
	}()

	fail := func(err error) Result {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	path := filepath.Join(dir, name)

	// Permission probe: the file must be readable and renameable-in-place.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fail(fmt.Errorf("insufficient permission: %w", err))
	}
	f.Close()

	text, meta, err := r.Source.Extract(path, r.Options.MaxPages)
	if err != nil {
		return fail(err)
	}

	extraction, err := r.Extractor.Extract(ctx, text, name)
	if err != nil {
		return fail(err)
	}

	record := citation.Reconcile(ctx, extraction, meta, r.Lookup)
	base := naming.Build(record.Author, record.Year, record.Title, r.Options.MaxNameLength)
	safe := naming.Sanitize(base)
	result.Record = &record

	// No-op rename: the computed name already matches the source.
	if strings.EqualFold(name, safe) {
		result.Target = name
		result.Status = StatusUnchanged
		return r.finish(ctx, path, record, result)
	}

	target := naming.ResolveCollision(filepath.Join(dir, safe))
	result.Target = filepath.Base(target)

	if r.Options.DryRun {
		result.Status = StatusWouldRename
		return result
	}

	if err := os.Rename(path, target); err != nil {
		return fail(fmt.Errorf("renaming: %w", err))
	}
	result.Status = StatusRenamed

	return r.finish(ctx, target, record, result)
}

// finish applies the optional metadata write to the file's final path.
func (r *Runner) finish(ctx context.Context, path string, record citation.Record, result Result) Result {
	if !r.Options.WriteMetadata || r.Options.DryRun {
		return result
	}
	if r.Writer == nil {
		result.Status = StatusFailed
		result.Error = "metadata write requested but no writer configured"
		return result
	}
	if err := r.Writer.Write(ctx, path, metadataFor(record)); err != nil {
		result.Status = StatusFailed
		result.Error = fmt.Sprintf("writing metadata: %v", err)
		return result
	}
	return result
}

// metadataFor maps a reconciled record onto document metadata fields.
// Keywords carry the volume/issue/pages trail and the reconciliation
// notes as the audit trail.
func metadataFor(record citation.Record) pdf.DocumentMetadata {
	subject := record.Journal
	if subject == "" {
		subject = record.Publisher
	}
	if record.Year != "" {
		if subject != "" {
			subject = fmt.Sprintf("%s (%s)", subject, record.Year)
		} else {
			subject = record.Year
		}
	}

	var keywords []string
	if record.Volume != "" {
		keywords = append(keywords, "vol. "+record.Volume)
	}
	if record.Issue != "" {
		keywords = append(keywords, "no. "+record.Issue)
	}
	if record.Pages != "" {
		keywords = append(keywords, "pp. "+record.Pages)
	}
	if record.OtherInfo != "" {
		keywords = append(keywords, record.OtherInfo)
	}
	keywords = append(keywords, record.Notes...)

	return pdf.DocumentMetadata{
		Title:    record.Title,
		Author:   record.Author,
		Subject:  subject,
		Keywords: strings.Join(keywords, "; "),
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.Options.Logf != nil {
		r.Options.Logf(format, args...)
	}
}
