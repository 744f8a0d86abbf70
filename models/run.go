package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of a screening run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// TickerFailure records why a single symbol could not be scored.
type TickerFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// ScreeningRun accumulates the state of one screening pass over a universe.
// Worker goroutines record results concurrently, so all appends go through
// the mutex-guarded methods. A run is never shared across screening passes.
type ScreeningRun struct {
	ID        uuid.UUID         `json:"id"`
	StartedAt time.Time         `json:"started_at"`
	Universe  *ResolvedUniverse `json:"universe"`

	mu             sync.Mutex
	Qualified      []FinalResult   `json:"qualified"`
	BelowThreshold int             `json:"below_threshold"`
	Failures       []TickerFailure `json:"failures"`

	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Progress is a point-in-time view of run completion used for reporting.
type Progress struct {
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Qualified int           `json:"qualified"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
	// ETA is zero until at least one symbol has completed.
	ETA time.Duration `json:"eta"`
}

// NewScreeningRun creates a run over the given universe.
func NewScreeningRun(universe *ResolvedUniverse) *ScreeningRun {
	return &ScreeningRun{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Universe:  universe,
		Qualified: []FinalResult{},
		Failures:  []TickerFailure{},
		Status:    RunStatusRunning,
	}
}

// AddQualified appends a qualifying result.
func (r *ScreeningRun) AddQualified(res FinalResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Qualified = append(r.Qualified, res)
}

// AddBelowThreshold counts a symbol that was scored but did not qualify.
func (r *ScreeningRun) AddBelowThreshold() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.BelowThreshold++
}

// AddFailure records a symbol that could not be scored.
func (r *ScreeningRun) AddFailure(symbol, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, TickerFailure{Symbol: symbol, Reason: reason})
}

// Snapshot returns current progress with a linear ETA estimate.
func (r *ScreeningRun) Snapshot() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	completed := len(r.Qualified) + r.BelowThreshold + len(r.Failures)
	total := 0
	if r.Universe != nil {
		total = len(r.Universe.Symbols)
	}
	elapsed := time.Since(r.StartedAt)

	var eta time.Duration
	if completed > 0 && total > completed {
		perSymbol := elapsed / time.Duration(completed)
		eta = perSymbol * time.Duration(total-completed)
	}

	return Progress{
		Completed: completed,
		Total:     total,
		Qualified: len(r.Qualified),
		Failed:    len(r.Failures),
		Elapsed:   elapsed,
		ETA:       eta,
	}
}

// Completed returns how many symbols have finished, successfully or not.
func (r *ScreeningRun) CompletedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Qualified) + r.BelowThreshold + len(r.Failures)
}

// Complete marks the run as finished.
func (r *ScreeningRun) Complete(durationMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusCompleted
	r.DurationMs = durationMs
}

// Fail marks the run as failed with a reason.
func (r *ScreeningRun) Fail(reason string, durationMs int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusFailed
	r.Error = reason
	r.DurationMs = durationMs
}

// Results returns a copy of the qualified set, safe to read while workers
// may still be appending.
func (r *ScreeningRun) Results() []FinalResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FinalResult, len(r.Qualified))
	copy(out, r.Qualified)
	return out
}

// FailureList returns a copy of the recorded failures.
func (r *ScreeningRun) FailureList() []TickerFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TickerFailure, len(r.Failures))
	copy(out, r.Failures)
	return out
}
