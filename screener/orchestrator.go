package screener

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"stock-scout/config"
	"stock-scout/models"
	"stock-scout/observability"
	"stock-scout/scoring"
	"stock-scout/services"
	"stock-scout/universe"
)

// SnapshotProvider fetches the full market snapshot for one symbol.
type SnapshotProvider interface {
	GetSnapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error)
}

// UniverseResolver turns a universe spec into a concrete symbol list.
type UniverseResolver interface {
	Resolve(ctx context.Context, spec models.UniverseSpec) (*models.ResolvedUniverse, error)
}

// RunRepository defines the persistence operations needed by the orchestrator.
type RunRepository interface {
	CreateScreeningRun(ctx context.Context, run *models.ScreeningRun) error
	UpdateScreeningRun(ctx context.Context, run *models.ScreeningRun) error
	GetScreeningRun(ctx context.Context, id uuid.UUID) (*models.ScreeningRun, error)
	GetLatestScreeningRun(ctx context.Context) (*models.ScreeningRun, error)
	GetScreeningRunHistory(ctx context.Context, limit int) ([]*models.ScreeningRun, error)
}

// ProgressUpdate is emitted after each symbol finishes, pass or fail.
type ProgressUpdate struct {
	Symbol   string
	Result   *models.FinalResult   // nil when the symbol failed
	Failure  *models.TickerFailure // nil when the symbol was scored
	Progress models.Progress
}

// ProgressFunc receives per-symbol completion updates. It is called from
// worker goroutines and must be safe for concurrent use.
type ProgressFunc func(update ProgressUpdate)

// Orchestrator runs a full screening pass: resolve the universe, fetch and
// score every symbol with a bounded worker pool, and collect the qualified
// set. One symbol's failure never aborts the run; the run itself fails only
// when there is nothing to screen or every symbol failed.
type Orchestrator struct {
	resolver   UniverseResolver
	data       SnapshotProvider
	aggregator *scoring.Aggregator
	repo       RunRepository // nil disables persistence
	cfg        *config.ScreenerConfig
	onProgress ProgressFunc // nil disables progress reporting
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	resolver UniverseResolver,
	data SnapshotProvider,
	aggregator *scoring.Aggregator,
	repo RunRepository,
	cfg *config.ScreenerConfig,
) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		data:       data,
		aggregator: aggregator,
		repo:       repo,
		cfg:        cfg,
	}
}

// SetProgressFunc installs a progress callback. Must be called before RunScreen.
func (o *Orchestrator) SetProgressFunc(fn ProgressFunc) {
	o.onProgress = fn
}

// RunScreen executes a full screening pass:
// 1. Resolve the universe
// 2. Fetch and score every symbol in parallel
// 3. Collect qualified results and per-symbol failures
// 4. Persist the run when a repository is configured
func (o *Orchestrator) RunScreen(ctx context.Context, spec models.UniverseSpec, overrides scoring.CatalystOverrides) (*models.ScreeningRun, error) {
	startTime := time.Now()

	resolved, err := o.resolver.Resolve(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("resolving universe: %w", err)
	}

	run := models.NewScreeningRun(resolved)
	logger := observability.WithRun(run.ID.String())
	logger.Info("screening run started",
		"universe_mode", string(spec.Mode),
		"universe_size", len(resolved.Symbols),
		"threshold", o.cfg.QualifyingThreshold)

	if o.repo != nil {
		if err := o.repo.CreateScreeningRun(ctx, run); err != nil {
			return nil, fmt.Errorf("creating screening run record: %w", err)
		}
	}

	o.screenInParallel(ctx, run, overrides)

	durationMs := time.Since(startTime).Milliseconds()
	qualified := run.Results()
	failures := run.FailureList()

	if len(failures) == len(resolved.Symbols) {
		run.Fail("every symbol in the universe failed", durationMs)
		observability.GetMetrics().RecordRun(string(models.RunStatusFailed), time.Since(startTime), 0)
	} else {
		run.Complete(durationMs)
		observability.GetMetrics().RecordRun(string(models.RunStatusCompleted), time.Since(startTime), len(qualified))
	}

	if o.repo != nil {
		if err := o.repo.UpdateScreeningRun(ctx, run); err != nil {
			logger.Warn("failed to persist screening run", "error", err)
		}
	}

	logger.Info("screening run finished",
		"status", string(run.Status),
		"duration_ms", durationMs,
		"qualified", len(qualified),
		"below_threshold", run.BelowThreshold,
		"failed", len(failures))

	if run.Status == models.RunStatusFailed {
		return run, fmt.Errorf("screening run %s failed: %s", run.ID, run.Error)
	}
	return run, nil
}

// screenInParallel scores the universe with a semaphore-bounded worker pool.
// Cancellation is cooperative: in-flight symbols finish, unstarted ones are
// skipped, and whatever completed stays in the run.
func (o *Orchestrator) screenInParallel(ctx context.Context, run *models.ScreeningRun, overrides scoring.CatalystOverrides) {
	sem := make(chan struct{}, o.cfg.MaxConcurrent)
	var wg sync.WaitGroup

	tickerTimeout := time.Duration(o.cfg.TickerTimeoutSec) * time.Second

	for _, symbol := range run.Universe.Symbols {
		if ctx.Err() != nil {
			observability.WithRun(run.ID.String()).Warn("screening cancelled, returning partial results",
				"completed", run.CompletedCount(),
				"total", len(run.Universe.Symbols))
			break
		}

		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			tickerCtx, cancel := context.WithTimeout(ctx, tickerTimeout)
			defer cancel()

			result, err := o.scoreSymbol(tickerCtx, symbol, overrides)
			if err != nil {
				o.recordFailure(run, symbol, err)
				return
			}
			o.recordResult(run, symbol, result)
		}(symbol)
	}

	wg.Wait()
}

// scoreSymbol fetches and scores one symbol. A panic inside a scorer is a
// bug in a rule table, not a reason to kill the run: it is converted to an
// error and recorded like any other per-symbol failure.
func (o *Orchestrator) scoreSymbol(ctx context.Context, symbol string, overrides scoring.CatalystOverrides) (result *models.FinalResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			observability.WithSymbol(symbol).Error("scoring panicked", "panic", r)
			result = nil
			err = fmt.Errorf("internal scoring error: %v", r)
		}
	}()

	snapshot, err := o.data.GetSnapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	timer := observability.GetMetrics().NewTimer()
	final := o.aggregator.Score(snapshot, overrides)
	timer.ObserveTicker("score")

	return &final, nil
}

func (o *Orchestrator) recordResult(run *models.ScreeningRun, symbol string, result *models.FinalResult) {
	metrics := observability.GetMetrics()
	metrics.RecordScores(result.FinalScore, map[string]float64{
		string(models.ComponentFundamental): result.Fundamental.Score,
		string(models.ComponentTechnical):   result.Technical.Score,
		string(models.ComponentCatalyst):    result.Catalyst.Score,
		string(models.ComponentSentiment):   result.Sentiment.Score,
	})

	if result.FinalScore >= o.cfg.QualifyingThreshold {
		run.AddQualified(*result)
		metrics.RecordTicker("qualified")
	} else {
		run.AddBelowThreshold()
		metrics.RecordTicker("below_threshold")
	}

	observability.WithSymbol(symbol).Info("symbol scored",
		"score", result.FinalScore,
		"rating", string(result.Rating))

	if o.onProgress != nil {
		o.onProgress(ProgressUpdate{Symbol: symbol, Result: result, Progress: run.Snapshot()})
	}
}

func (o *Orchestrator) recordFailure(run *models.ScreeningRun, symbol string, err error) {
	reason := failureReason(err)
	run.AddFailure(symbol, err.Error())

	metrics := observability.GetMetrics()
	metrics.RecordTicker("failed")
	metrics.RecordTickerFailure(reason)

	observability.WithSymbol(symbol).Warn("symbol failed", "reason", reason, "error", err)

	if o.onProgress != nil {
		failure := &models.TickerFailure{Symbol: symbol, Reason: err.Error()}
		o.onProgress(ProgressUpdate{Symbol: symbol, Failure: failure, Progress: run.Snapshot()})
	}
}

// failureReason buckets a per-symbol error for metrics labels.
func failureReason(err error) string {
	switch {
	case services.IsDataUnavailable(err):
		return "data_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "internal"
	}
}

// TopPicks returns the k highest-scoring qualified results, ordered by score
// descending with symbol as the tiebreak so equal scores rank reproducibly.
func TopPicks(run *models.ScreeningRun, k int) []models.FinalResult {
	results := run.Results()
	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].Symbol < results[j].Symbol
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// GetLatestPicks returns the top picks from the most recent completed run.
func (o *Orchestrator) GetLatestPicks(ctx context.Context) ([]models.FinalResult, error) {
	if o.repo == nil {
		return nil, nil
	}
	run, err := o.repo.GetLatestScreeningRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching latest screening run: %w", err)
	}
	if run == nil || run.Status != models.RunStatusCompleted {
		return nil, nil
	}
	return TopPicks(run, o.cfg.TopPicksCount), nil
}

// GetRun returns a specific screening run by ID.
func (o *Orchestrator) GetRun(ctx context.Context, id uuid.UUID) (*models.ScreeningRun, error) {
	if o.repo == nil {
		return nil, nil
	}
	return o.repo.GetScreeningRun(ctx, id)
}

// GetLatestRun returns the most recent screening run.
func (o *Orchestrator) GetLatestRun(ctx context.Context) (*models.ScreeningRun, error) {
	if o.repo == nil {
		return nil, nil
	}
	return o.repo.GetLatestScreeningRun(ctx)
}

// GetRunHistory returns recent screening runs, newest first.
func (o *Orchestrator) GetRunHistory(ctx context.Context, limit int) ([]*models.ScreeningRun, error) {
	if o.repo == nil {
		return nil, nil
	}
	return o.repo.GetScreeningRunHistory(ctx, limit)
}

// ensure the production resolver satisfies the orchestrator's interface
var _ UniverseResolver = (*universe.Resolver)(nil)
