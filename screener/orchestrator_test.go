package screener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"stock-scout/config"
	"stock-scout/models"
	"stock-scout/scoring"
	"stock-scout/services"
)

type fakeResolver struct {
	universe *models.ResolvedUniverse
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, spec models.UniverseSpec) (*models.ResolvedUniverse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.universe, nil
}

type fakeSnapshots struct {
	snapshots map[string]*models.MarketSnapshot
	errs      map[string]error
	panicOn   string
}

func (f *fakeSnapshots) GetSnapshot(_ context.Context, symbol string) (*models.MarketSnapshot, error) {
	if symbol == f.panicOn {
		panic("rule table index out of range")
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	if snap, ok := f.snapshots[symbol]; ok {
		return snap, nil
	}
	return &models.MarketSnapshot{Symbol: symbol}, nil
}

type fakeRunRepo struct {
	mu      sync.Mutex
	created *models.ScreeningRun
	updated *models.ScreeningRun
	latest  *models.ScreeningRun
}

func (f *fakeRunRepo) CreateScreeningRun(_ context.Context, run *models.ScreeningRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = run
	return nil
}

func (f *fakeRunRepo) UpdateScreeningRun(_ context.Context, run *models.ScreeningRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = run
	return nil
}

func (f *fakeRunRepo) GetScreeningRun(_ context.Context, id uuid.UUID) (*models.ScreeningRun, error) {
	return f.latest, nil
}

func (f *fakeRunRepo) GetLatestScreeningRun(_ context.Context) (*models.ScreeningRun, error) {
	return f.latest, nil
}

func (f *fakeRunRepo) GetScreeningRunHistory(_ context.Context, limit int) ([]*models.ScreeningRun, error) {
	return nil, nil
}

func testUniverse(symbols ...string) *models.ResolvedUniverse {
	return &models.ResolvedUniverse{
		Spec:       models.UniverseSpec{Mode: models.UniverseExplicit, Tickers: symbols},
		Symbols:    symbols,
		Source:     models.ProvenanceExplicit,
		ResolvedAt: time.Now(),
	}
}

// strongSnapshot scores 45.0 under default weights: perfect fundamentals
// (30 weighted points) plus perfect sentiment (15 weighted points).
func strongSnapshot(symbol string) *models.MarketSnapshot {
	return &models.MarketSnapshot{
		Symbol:      symbol,
		CompanyName: symbol + " Inc.",
		Fundamentals: models.FundamentalData{
			RevenueGrowthPct:  models.Float(35),
			EarningsGrowthPct: models.Float(32),
			DebtToEquity:      models.Float(0.3),
			CurrentRatio:      models.Float(2.5),
			ProfitMarginPct:   models.Float(25),
			ReturnOnEquityPct: models.Float(22),
			PEGRatio:          models.Float(0.8),
		},
		Sentiment: models.SentimentData{
			InstitutionalOwnershipPct: models.Float(75),
			InsiderBuyers:             models.Int(3),
			AnalystConsensus:          models.RecommendationStrongBuy,
		},
	}
}

func newTestOrchestrator(t *testing.T, resolver UniverseResolver, data SnapshotProvider, repo RunRepository, threshold float64) *Orchestrator {
	t.Helper()
	agg, err := scoring.NewAggregator(scoring.DefaultWeights)
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	cfg := config.NewTestConfig().Screener
	cfg.QualifyingThreshold = threshold
	return NewOrchestrator(resolver, data, agg, repo, &cfg)
}

func TestRunScreenSplitsOnThreshold(t *testing.T) {
	resolver := &fakeResolver{universe: testUniverse("AAPL", "XOM")}
	data := &fakeSnapshots{snapshots: map[string]*models.MarketSnapshot{
		"AAPL": strongSnapshot("AAPL"),
	}}
	o := newTestOrchestrator(t, resolver, data, nil, 40)

	run, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{})
	if err != nil {
		t.Fatalf("RunScreen() error = %v", err)
	}

	if run.Status != models.RunStatusCompleted {
		t.Errorf("Status = %q, want completed", run.Status)
	}
	qualified := run.Results()
	if len(qualified) != 1 || qualified[0].Symbol != "AAPL" {
		t.Fatalf("Qualified = %+v, want just AAPL", qualified)
	}
	if qualified[0].FinalScore != 45.0 {
		t.Errorf("FinalScore = %v, want 45.0", qualified[0].FinalScore)
	}
	if run.BelowThreshold != 1 {
		t.Errorf("BelowThreshold = %d, want 1", run.BelowThreshold)
	}
	if len(run.FailureList()) != 0 {
		t.Errorf("Failures = %+v, want none", run.FailureList())
	}
}

func TestRunScreenOneFailureDoesNotAbort(t *testing.T) {
	resolver := &fakeResolver{universe: testUniverse("AAPL", "BADCO", "MSFT")}
	data := &fakeSnapshots{
		snapshots: map[string]*models.MarketSnapshot{
			"AAPL": strongSnapshot("AAPL"),
			"MSFT": strongSnapshot("MSFT"),
		},
		errs: map[string]error{
			"BADCO": &services.DataUnavailableError{Symbol: "BADCO", Reason: "no profile data"},
		},
	}
	o := newTestOrchestrator(t, resolver, data, nil, 40)

	run, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{})
	if err != nil {
		t.Fatalf("RunScreen() error = %v", err)
	}

	if got := len(run.Results()); got != 2 {
		t.Errorf("len(Qualified) = %d, want 2", got)
	}
	failures := run.FailureList()
	if len(failures) != 1 || failures[0].Symbol != "BADCO" {
		t.Fatalf("Failures = %+v, want just BADCO", failures)
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("Status = %q, want completed despite one failure", run.Status)
	}
}

func TestRunScreenAllSymbolsFailed(t *testing.T) {
	resolver := &fakeResolver{universe: testUniverse("AAA", "BBB")}
	data := &fakeSnapshots{errs: map[string]error{
		"AAA": errors.New("boom"),
		"BBB": errors.New("boom"),
	}}
	o := newTestOrchestrator(t, resolver, data, nil, 60)

	run, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{})
	if err == nil {
		t.Fatal("expected an error when every symbol fails")
	}
	if run == nil {
		t.Fatal("run should still be returned for inspection")
	}
	if run.Status != models.RunStatusFailed {
		t.Errorf("Status = %q, want failed", run.Status)
	}
	if len(run.FailureList()) != 2 {
		t.Errorf("Failures = %+v, want 2", run.FailureList())
	}
}

func TestRunScreenRecoversScorerPanic(t *testing.T) {
	resolver := &fakeResolver{universe: testUniverse("AAPL", "PANIC")}
	data := &fakeSnapshots{
		snapshots: map[string]*models.MarketSnapshot{"AAPL": strongSnapshot("AAPL")},
		panicOn:   "PANIC",
	}
	o := newTestOrchestrator(t, resolver, data, nil, 40)

	run, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{})
	if err != nil {
		t.Fatalf("RunScreen() error = %v", err)
	}

	failures := run.FailureList()
	if len(failures) != 1 || failures[0].Symbol != "PANIC" {
		t.Fatalf("Failures = %+v, want just PANIC", failures)
	}
	if !strings.Contains(failures[0].Reason, "internal scoring error") {
		t.Errorf("Reason = %q, want an internal scoring error", failures[0].Reason)
	}
	if len(run.Results()) != 1 {
		t.Errorf("len(Qualified) = %d, want the healthy symbol scored", len(run.Results()))
	}
}

func TestRunScreenResolverErrorPropagates(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("no symbols")}
	o := newTestOrchestrator(t, resolver, &fakeSnapshots{}, nil, 60)

	run, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseSP500}, scoring.CatalystOverrides{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if run != nil {
		t.Errorf("run = %+v, want nil before a universe exists", run)
	}
}

func TestRunScreenPersistsLifecycle(t *testing.T) {
	repo := &fakeRunRepo{}
	resolver := &fakeResolver{universe: testUniverse("AAPL")}
	data := &fakeSnapshots{snapshots: map[string]*models.MarketSnapshot{"AAPL": strongSnapshot("AAPL")}}
	o := newTestOrchestrator(t, resolver, data, repo, 40)

	run, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{})
	if err != nil {
		t.Fatalf("RunScreen() error = %v", err)
	}

	if repo.created == nil {
		t.Fatal("run was never created in the repository")
	}
	if repo.updated == nil {
		t.Fatal("run was never updated in the repository")
	}
	if repo.updated.ID != run.ID {
		t.Errorf("updated run ID = %v, want %v", repo.updated.ID, run.ID)
	}
	if repo.updated.Status != models.RunStatusCompleted {
		t.Errorf("persisted status = %q, want completed", repo.updated.Status)
	}
}

func TestRunScreenCancelledBeforeStart(t *testing.T) {
	resolver := &fakeResolver{universe: testUniverse("AAPL", "MSFT", "NVDA")}
	data := &fakeSnapshots{}
	o := newTestOrchestrator(t, resolver, data, nil, 60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := o.RunScreen(ctx, models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{})
	if err != nil {
		t.Fatalf("RunScreen() error = %v", err)
	}
	if run.CompletedCount() != 0 {
		t.Errorf("CompletedCount = %d, want 0 after immediate cancellation", run.CompletedCount())
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("Status = %q, cancellation keeps partial results, not a failure", run.Status)
	}
}

func TestRunScreenProgressCallback(t *testing.T) {
	resolver := &fakeResolver{universe: testUniverse("AAPL", "BADCO")}
	data := &fakeSnapshots{
		snapshots: map[string]*models.MarketSnapshot{"AAPL": strongSnapshot("AAPL")},
		errs:      map[string]error{"BADCO": errors.New("boom")},
	}
	o := newTestOrchestrator(t, resolver, data, nil, 40)

	var mu sync.Mutex
	updates := make(map[string]ProgressUpdate)
	o.SetProgressFunc(func(u ProgressUpdate) {
		mu.Lock()
		defer mu.Unlock()
		updates[u.Symbol] = u
	})

	if _, err := o.RunScreen(context.Background(), models.UniverseSpec{Mode: models.UniverseExplicit}, scoring.CatalystOverrides{}); err != nil {
		t.Fatalf("RunScreen() error = %v", err)
	}

	if len(updates) != 2 {
		t.Fatalf("got %d progress updates, want 2", len(updates))
	}
	if updates["AAPL"].Result == nil || updates["AAPL"].Failure != nil {
		t.Errorf("AAPL update = %+v, want a result", updates["AAPL"])
	}
	if updates["BADCO"].Failure == nil || updates["BADCO"].Result != nil {
		t.Errorf("BADCO update = %+v, want a failure", updates["BADCO"])
	}
	if updates["AAPL"].Progress.Total != 2 {
		t.Errorf("Progress.Total = %d, want 2", updates["AAPL"].Progress.Total)
	}
}

func scoredResult(symbol string, score float64) models.FinalResult {
	return models.FinalResult{
		Symbol:     symbol,
		FinalScore: score,
		Rating:     models.RatingForScore(score),
	}
}

func TestTopPicksOrderingAndLimit(t *testing.T) {
	run := models.NewScreeningRun(testUniverse("AAA", "BBB", "CCC"))
	run.AddQualified(scoredResult("AAA", 72))
	run.AddQualified(scoredResult("BBB", 91))
	run.AddQualified(scoredResult("CCC", 72))

	picks := TopPicks(run, 2)
	if len(picks) != 2 {
		t.Fatalf("len(picks) = %d, want 2", len(picks))
	}
	if picks[0].Symbol != "BBB" || picks[0].FinalScore != 91 {
		t.Errorf("picks[0] = %+v, want BBB at 91", picks[0])
	}
	// Equal scores break the tie alphabetically.
	if picks[1].Symbol != "AAA" {
		t.Errorf("picks[1] = %+v, want AAA", picks[1])
	}
}

func TestTopPicksZeroLimitReturnsAll(t *testing.T) {
	run := models.NewScreeningRun(testUniverse("AAA", "BBB"))
	run.AddQualified(scoredResult("AAA", 65))
	run.AddQualified(scoredResult("BBB", 80))

	picks := TopPicks(run, 0)
	if len(picks) != 2 {
		t.Fatalf("len(picks) = %d, want all qualified", len(picks))
	}
	if picks[0].Symbol != "BBB" {
		t.Errorf("picks[0] = %+v, want the highest score first", picks[0])
	}
}

func TestFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"data unavailable", &services.DataUnavailableError{Symbol: "X", Reason: "no data"}, "data_unavailable"},
		{"wrapped data unavailable", fmt.Errorf("fetch: %w", &services.DataUnavailableError{Symbol: "X", Reason: "no data"}), "data_unavailable"},
		{"timeout", context.DeadlineExceeded, "timeout"},
		{"cancelled", context.Canceled, "cancelled"},
		{"anything else", errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failureReason(tt.err); got != tt.want {
				t.Errorf("failureReason(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
