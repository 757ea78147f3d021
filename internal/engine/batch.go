package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/soilsense/internal/model"
)

// Field is one field in a batch: its soil test and the candidates to compare on it.
type Field struct {
	Conditions *model.FieldConditions      `json:"field_conditions,omitempty" yaml:"field_conditions"`
	ID         string                      `json:"id" yaml:"id"`
	Name       string                      `json:"name" yaml:"name"`
	Candidates []model.FertilizerCandidate `json:"candidates" yaml:"candidates"`
	Soil       model.SoilState             `json:"soil" yaml:"soil"`
}

// BatchOptions configures batch assessment behavior.
type BatchOptions struct {
	// Progress is called once per completed field, from worker goroutines.
	Progress        func(Field)
	ParallelWorkers int
}

// DefaultBatchOptions returns sensible defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{ParallelWorkers: 2}
}

// BatchResult is the comparison outcome for one field.
type BatchResult struct {
	Error  error
	Field  Field
	Ranked []model.RankedAssessment
}

// BatchSummary contains statistics about the batch run.
type BatchSummary struct {
	TotalFields    int
	Assessed       int
	Failed         int
	HighRiskTop    int
	ProcessingTime time.Duration
}

// AssessFields compares candidates on every field in parallel. Results are returned in
// input order; a failing field does not stop the others.
func (e *Engine) AssessFields(ctx context.Context, fields []Field, opts BatchOptions) ([]BatchResult, *BatchSummary) {
	start := time.Now()
	if opts.ParallelWorkers <= 0 {
		opts.ParallelWorkers = 1
	}

	workChan := make(chan int, len(fields))
	for i := range fields {
		workChan <- i
	}
	close(workChan)

	results := make([]BatchResult, len(fields))
	var wg sync.WaitGroup
	wg.Add(opts.ParallelWorkers)
	for w := 0; w < opts.ParallelWorkers; w++ {
		go func(workerID int) {
			defer wg.Done()
			e.batchWorker(ctx, workerID, workChan, fields, results, opts)
		}(w)
	}
	wg.Wait()

	summary := &BatchSummary{TotalFields: len(fields)}
	for _, r := range results {
		if r.Error != nil {
			summary.Failed++
			continue
		}
		summary.Assessed++
		if r.Ranked[0].RiskLevel.Index() >= model.RiskHigh.Index() {
			summary.HighRiskTop++
		}
	}
	summary.ProcessingTime = time.Since(start)

	slog.Info("Batch assessment complete",
		"fields", summary.TotalFields,
		"assessed", summary.Assessed,
		"failed", summary.Failed,
		"duration", summary.ProcessingTime)
	return results, summary
}

// batchWorker processes field indices from the work channel. Each index is written by
// exactly one worker.
func (e *Engine) batchWorker(ctx context.Context, workerID int, workChan <-chan int, fields []Field, results []BatchResult, opts BatchOptions) {
	for i := range workChan {
		field := fields[i]
		result := BatchResult{Field: field}

		if err := ctx.Err(); err != nil {
			result.Error = err
		} else {
			slog.Debug("worker assessing field", "worker_id", workerID, "field", field.ID)
			result.Ranked, result.Error = e.CompareFertilizers(ctx, field.Candidates, field.Soil, field.Conditions)
		}
		if result.Error != nil {
			slog.Warn("Field assessment failed", "field", field.ID, "error", result.Error)
		}

		results[i] = result
		if opts.Progress != nil {
			opts.Progress(field)
		}
	}
}
