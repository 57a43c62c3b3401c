package worker

import (
	"context"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

// FilingProcessor fetches and classifies one filing end to end.
type FilingProcessor interface {
	ProcessFiling(ctx context.Context, ref model.FilingRef) (*model.Verdict, error)
}

// FilingJob classifies a single filing reference.
type FilingJob struct {
	Ref       model.FilingRef
	Processor FilingProcessor
}

// Execute runs the job.
func (j *FilingJob) Execute(ctx context.Context) Result {
	verdict, err := j.Processor.ProcessFiling(ctx, j.Ref)
	return &FilingResult{
		Ref:     j.Ref,
		Verdict: verdict,
		Error:   err,
	}
}

// FilingResult is the outcome of one filing job.
type FilingResult struct {
	Ref     model.FilingRef
	Verdict *model.Verdict
	Error   error
}

// GetError returns the error from the filing result.
func (r *FilingResult) GetError() error {
	return r.Error
}

// BatchProcessor classifies multiple filings concurrently. Per-entity
// serialization around the dedupe store happens inside the processor, so
// workers run freely across entities.
type BatchProcessor struct {
	processor   FilingProcessor
	concurrency int
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(processor FilingProcessor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// Process classifies all filing references and returns one result each.
func (b *BatchProcessor) Process(ctx context.Context, refs []model.FilingRef) []*FilingResult {
	if len(refs) == 0 {
		return []*FilingResult{}
	}

	pool := NewSizedPool(b.concurrency, len(refs))
	pool.Start()

	for _, ref := range refs {
		pool.Submit(&FilingJob{Ref: ref, Processor: b.processor})
	}

	raw := pool.Wait()
	results := make([]*FilingResult, 0, len(raw))
	for _, r := range raw {
		if fr, ok := r.(*FilingResult); ok {
			results = append(results, fr)
		}
	}
	return results
}
