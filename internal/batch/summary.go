package batch

import "github.com/jgkarlin/renamepdf/internal/citation"

// Per-file outcome statuses.
const (
	StatusRenamed     = "renamed"
	StatusUnchanged   = "unchanged"
	StatusWouldRename = "would-rename"
	StatusFailed      = "failed"
)

// Result records the outcome for one file.
type Result struct {
	Source string           `json:"source"`
	Target string           `json:"target,omitempty"`
	Status string           `json:"status"`
	Record *citation.Record `json:"record,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Summary aggregates one batch run. Successful + Failed equals Total,
// the number of files actually attempted; files skipped for permission
// reasons count as failed.
type Summary struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
	Results    []Result `json:"results,omitempty"`
}
