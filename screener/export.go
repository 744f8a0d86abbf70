package screener

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"stock-scout/models"
)

// RunArtifact is the JSON document written after a screening run. It carries
// everything needed to review the run offline: the universe that was
// screened, the ranked top picks, and every per-symbol failure.
type RunArtifact struct {
	RunID          string                  `json:"run_id"`
	Status         models.RunStatus        `json:"status"`
	StartedAt      time.Time               `json:"started_at"`
	DurationMs     int64                   `json:"duration_ms"`
	Universe       *models.ResolvedUniverse `json:"universe"`
	QualifiedCount int                     `json:"qualified_count"`
	BelowThreshold int                     `json:"below_threshold"`
	TopPicks       []models.FinalResult    `json:"top_picks"`
	Failures       []models.TickerFailure  `json:"failures"`
}

// csvRow flattens one qualified result for spreadsheet review.
type csvRow struct {
	Symbol      string  `csv:"symbol"`
	CompanyName string  `csv:"company_name"`
	FinalScore  float64 `csv:"final_score"`
	Rating      string  `csv:"rating"`
	Fundamental float64 `csv:"fundamental"`
	Technical   float64 `csv:"technical"`
	Catalyst    float64 `csv:"catalyst"`
	Sentiment   float64 `csv:"sentiment"`
	Price       string  `csv:"price"`
	GeneratedAt string  `csv:"generated_at"`
}

// WriteTopPicksJSON writes the run artifact with the top k picks to path.
func WriteTopPicksJSON(path string, run *models.ScreeningRun, k int) error {
	artifact := RunArtifact{
		RunID:          run.ID.String(),
		Status:         run.Status,
		StartedAt:      run.StartedAt,
		DurationMs:     run.DurationMs,
		Universe:       run.Universe,
		QualifiedCount: len(run.Results()),
		BelowThreshold: run.BelowThreshold,
		TopPicks:       TopPicks(run, k),
		Failures:       run.FailureList(),
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run artifact: %w", err)
	}
	return nil
}

// WriteQualifiedCSV writes the full qualified set to path, ranked by score.
func WriteQualifiedCSV(path string, run *models.ScreeningRun) error {
	qualified := TopPicks(run, 0)

	rows := make([]csvRow, 0, len(qualified))
	for _, r := range qualified {
		row := csvRow{
			Symbol:      r.Symbol,
			CompanyName: r.CompanyName,
			FinalScore:  r.FinalScore,
			Rating:      string(r.Rating),
			Fundamental: r.Fundamental.Score,
			Technical:   r.Technical.Score,
			Catalyst:    r.Catalyst.Score,
			Sentiment:   r.Sentiment.Score,
			GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		}
		if r.CurrentPrice != nil {
			row.Price = r.CurrentPrice.StringFixed(2)
		}
		rows = append(rows, row)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}
