// Package orchestrator drives one scrape run: every registered target in
// order, a fixed politeness delay in between, per-target failure isolation,
// and an ordered outcome list for the caller.
package orchestrator

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stripwijzer/internal/adapter"
	"stripwijzer/internal/catalog"
	"stripwijzer/internal/model"
	"stripwijzer/internal/sustainability"
	"stripwijzer/logger"
	"stripwijzer/services/publisher"
)

// ErrRunInProgress is returned when a run is requested while another run of
// the same orchestrator is still active.
var ErrRunInProgress = stderrors.New("orchestrator: run already in progress")

// CatalogWriter is the persistence surface the orchestrator needs
type CatalogWriter interface {
	UpsertProductWithVariants(in catalog.UpsertInput) (*catalog.UpsertResult, error)
	StartRunLog(runID string, startedAt time.Time) (int64, error)
	CompleteRunLog(logID int64, status, message string, completedAt time.Time) error
	AddTargetLog(entry model.ScrapeLogEntry) error
}

// Outcome is the per-target result of one run. Failed targets carry the
// placeholder shape (zero price, no variants, stock defaulted true) so
// aggregate counts stay consistent; nothing of a failed target is persisted.
type Outcome struct {
	Slug     string
	Supplier string

	Variants    []model.VariantRecord
	StockSignal bool
	Reviews     []model.ReviewRecord

	Persisted *catalog.UpsertResult
	Err       error
	Duration  time.Duration
}

// RunResult aggregates one full pass over the target list
type RunResult struct {
	RunID      string
	Status     string
	Total      int
	Successful int
	Failed     int
	Outcomes   []Outcome
}

// priceChangeEvent is the payload published when a persisted write moved the
// default price.
type priceChangeEvent struct {
	Slug      string    `json:"slug"`
	Supplier  string    `json:"supplier"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	Delta     float64   `json:"delta"`
	Timestamp time.Time `json:"timestamp"`
}

// Orchestrator runs the scrape pipeline over a static target list
type Orchestrator struct {
	targets []adapter.Target
	writer  CatalogWriter
	scorer  *sustainability.Scorer
	pub     publisher.Publisher
	delay   time.Duration

	mu sync.Mutex
}

// New creates an orchestrator. The delay runs between consecutive targets;
// it is a politeness policy toward the scraped sites, not a tunable.
func New(targets []adapter.Target, writer CatalogWriter, scorer *sustainability.Scorer, pub publisher.Publisher, delay time.Duration) *Orchestrator {
	return &Orchestrator{
		targets: targets,
		writer:  writer,
		scorer:  scorer,
		pub:     pub,
		delay:   delay,
	}
}

// Run executes one full scrape pass. Targets run strictly sequentially; a
// failing target never aborts the run. Only one run may be active at a time
// within a process.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if !o.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer o.mu.Unlock()

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	log := logger.ForOrchestrator().WithField("run_id", runID)

	logID, err := o.writer.StartRunLog(runID, startedAt)
	if err != nil {
		return nil, err
	}

	result := &RunResult{RunID: runID, Total: len(o.targets)}

	for i, target := range o.targets {
		if i > 0 && o.delay > 0 {
			select {
			case <-time.After(o.delay):
			case <-ctx.Done():
				o.completeRun(logID, result)
				return result, ctx.Err()
			}
		}

		outcome := o.scrapeTarget(ctx, target)
		result.Outcomes = append(result.Outcomes, outcome)
		if outcome.Err != nil {
			result.Failed++
		} else {
			result.Successful++
		}

		o.logTarget(runID, target, outcome)
	}

	o.completeRun(logID, result)

	log.WithField("status", result.Status).
		WithField("successful", result.Successful).
		WithField("failed", result.Failed).
		Info().Msg("scrape run completed")

	return result, nil
}

// scrapeTarget runs the three capability calls for one target and persists
// the result. Any failure yields the placeholder outcome.
func (o *Orchestrator) scrapeTarget(ctx context.Context, target adapter.Target) Outcome {
	start := time.Now()
	log := logger.ForAdapter(target.Supplier)

	fail := func(err error) Outcome {
		logger.LogError(target.Supplier, err, "target scrape failed")
		return Outcome{
			Slug:        target.Slug,
			Supplier:    target.Supplier,
			StockSignal: true,
			Err:         err,
			Duration:    time.Since(start),
		}
	}

	variants, err := target.Adapter.ExtractVariants(ctx, target.URL)
	if err != nil {
		return fail(err)
	}

	stockSignal, err := target.Adapter.ExtractStock(ctx, target.URL)
	if err != nil {
		return fail(err)
	}

	// Review failures degrade to no data instead of failing the target
	reviews, err := target.Adapter.ExtractReviews(ctx, target.URL)
	if err != nil {
		log.WithError(err).Warn().Msg("review extraction failed; continuing without reviews")
		reviews = nil
	}

	metrics := o.scorer.Score(target.Features, target.Supplier)

	persisted, err := o.writer.UpsertProductWithVariants(catalog.UpsertInput{
		Slug:           target.Slug,
		Name:           target.Name,
		Supplier:       target.Supplier,
		URL:            target.URL,
		Variants:       variants,
		StockSignal:    stockSignal,
		Reviews:        reviews,
		Features:       target.Features,
		Pros:           target.Pros,
		Cons:           target.Cons,
		Sustainability: metrics.Total,
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		return fail(err)
	}

	if persisted.PriceChanged && !persisted.Created {
		o.publishPriceChange(target, persisted)
	}

	log.WithField("variants", len(variants)).
		WithField("price", persisted.NewPrice).
		Info().Msg("target persisted")

	return Outcome{
		Slug:        target.Slug,
		Supplier:    target.Supplier,
		Variants:    variants,
		StockSignal: stockSignal,
		Reviews:     reviews,
		Persisted:   persisted,
		Duration:    time.Since(start),
	}
}

// publishPriceChange emits the event best-effort; a broker failure never
// fails the target.
func (o *Orchestrator) publishPriceChange(target adapter.Target, res *catalog.UpsertResult) {
	event := priceChangeEvent{
		Slug:      target.Slug,
		Supplier:  target.Supplier,
		OldPrice:  res.OldPrice,
		NewPrice:  res.NewPrice,
		Delta:     res.NewPrice - res.OldPrice,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.ForPublisher().WithError(err).Error().Msg("failed to encode price-change event")
		return
	}
	if err := o.pub.Publish(target.Slug, payload); err != nil {
		logger.ForPublisher().WithError(err).Error().Msg("failed to publish price-change event")
	}
}

// logTarget writes the per-target scrape log row; logging failures are
// reported but never affect the run.
func (o *Orchestrator) logTarget(runID string, target adapter.Target, outcome Outcome) {
	entry := model.ScrapeLogEntry{
		RunID:      runID,
		Supplier:   target.Supplier,
		StartedAt:  time.Now().UTC().Add(-outcome.Duration),
		DurationMs: outcome.Duration.Milliseconds(),
	}
	completed := entry.StartedAt.Add(outcome.Duration)
	entry.CompletedAt = &completed

	if outcome.Err != nil {
		entry.Status = model.ScrapeStatusFailed
		entry.Message = outcome.Err.Error()
	} else {
		entry.Status = model.ScrapeStatusSuccess
		entry.Message = fmt.Sprintf("persisted %d variants", len(outcome.Variants))
		if outcome.Persisted != nil {
			entry.OldPrice = outcome.Persisted.OldPrice
			entry.NewPrice = outcome.Persisted.NewPrice
			if outcome.Persisted.PriceChanged && !outcome.Persisted.Created {
				entry.PriceChange = outcome.Persisted.NewPrice - outcome.Persisted.OldPrice
			}
		}
	}

	if err := o.writer.AddTargetLog(entry); err != nil {
		logger.ForOrchestrator().WithError(err).Error().Msg("failed to write target scrape log")
	}
}

// completeRun derives the terminal status and closes the run-level log entry
func (o *Orchestrator) completeRun(logID int64, result *RunResult) {
	switch {
	case result.Failed == 0 && result.Successful > 0:
		result.Status = model.ScrapeStatusSuccess
	case result.Successful == 0:
		result.Status = model.ScrapeStatusFailed
	default:
		result.Status = model.ScrapeStatusPartial
	}

	message := fmt.Sprintf("%d/%d targets succeeded", result.Successful, result.Total)
	if err := o.writer.CompleteRunLog(logID, result.Status, message, time.Now().UTC()); err != nil {
		logger.ForOrchestrator().WithError(err).Error().Msg("failed to complete run log")
	}
}
