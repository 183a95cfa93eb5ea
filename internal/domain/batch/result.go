// Package batch holds the outcome of ranking several resumes against one job.
package batch

import domanalysis "github.com/kailas-cloud/resumatch/internal/domain/analysis"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of processing one resume in a batch.
type Result struct {
	name     string
	index    int
	status   ItemStatus
	analysis domanalysis.Analysis
	err      error
}

// NewOK creates a successful batch result.
func NewOK(name string, index int, a domanalysis.Analysis) Result {
	return Result{name: name, index: index, status: StatusOK, analysis: a}
}

// NewError creates a failed batch result.
func NewError(name string, index int, err error) Result {
	return Result{name: name, index: index, status: StatusError, err: err}
}

// Name returns the item name, usually the uploaded file name.
func (r Result) Name() string { return r.name }

// Index returns the item position in the request.
func (r Result) Index() int { return r.index }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Analysis returns the analysis of a successful item.
func (r Result) Analysis() domanalysis.Analysis { return r.analysis }

// Score returns the overall score, 0 for failed items.
func (r Result) Score() float64 { return r.analysis.Score() }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Report is a ranked batch: successes by score descending, then failures in input order.
type Report struct {
	Total      int
	Successful int
	Failed     int
	Results    []Result
}
