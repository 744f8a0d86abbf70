package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stock-scout/config"
	"stock-scout/internal/api"
	"stock-scout/observability"
	"stock-scout/repository"
	"stock-scout/scoring"
	"stock-scout/screener"
	"stock-scout/services"
	"stock-scout/universe"

	"github.com/joho/godotenv"
)

// snapshotCacheTTL bounds how stale a cached market snapshot may be before
// the adapter refetches it from the providers.
const snapshotCacheTTL = 15 * time.Minute

func main() {
	once := flag.Bool("once", false, "run a single screening pass, write artifacts and exit")
	outDir := flag.String("out", ".", "directory for screening artifacts in -once mode")
	flag.Parse()

	// Load environment variables; a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.Production)
	observability.InitMetrics()

	if !cfg.HasFMP() {
		observability.Fatal("FMP_API_KEY is required for company data")
	}
	fmp := services.NewFMPService(cfg.FMP.APIKey)

	var history services.PriceHistoryInterface
	if cfg.HasAlpaca() {
		history = services.NewAlpacaService(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL)
	} else {
		observability.Warn("Alpaca credentials not set, using Yahoo Finance for price history")
		history = services.NewYahooService()
	}

	adapter := services.NewMarketDataAdapter(fmp, history, cfg.Screener.HistoryDays)

	ctx := context.Background()

	var repo *repository.Repository
	if cfg.HasDatabase() {
		repo, err = repository.NewRepository(ctx, cfg.Database.URL)
		if err != nil {
			observability.Warn("database unavailable, continuing without persistence", "error", err)
			repo = nil
		} else {
			defer repo.Close()
			if err := repo.Migrate(ctx); err != nil {
				observability.Fatal("database migration failed", "error", err)
			}
			adapter.SetCache(repo, snapshotCacheTTL)
		}
	} else {
		observability.Info("DATABASE_URL not set, running without persistence")
	}

	resolver := universe.NewResolver(fmp, fmp)

	aggregator, err := scoring.NewAggregator(scoring.Weights{
		Fundamental: cfg.Scoring.WeightFundamental,
		Technical:   cfg.Scoring.WeightTechnical,
		Catalyst:    cfg.Scoring.WeightCatalyst,
		Sentiment:   cfg.Scoring.WeightSentiment,
	})
	if err != nil {
		observability.Fatal("invalid scoring weights", "error", err)
	}

	// A typed nil must not become a non-nil interface.
	var runRepo screener.RunRepository
	if repo != nil {
		runRepo = repo
	}

	orchestrator := screener.NewOrchestrator(resolver, adapter, aggregator, runRepo, &cfg.Screener)

	if *once {
		runOnce(ctx, orchestrator, cfg, *outDir)
		return
	}

	var db api.HealthChecker
	if repo != nil {
		db = repo
	}
	handler := api.NewHandler(orchestrator, db, cfg)
	router := api.NewRouter(handler, cfg)
	serve(router, cfg)
}

// runOnce executes a single screening pass with console progress output and
// writes the top-picks JSON and qualified CSV artifacts.
func runOnce(ctx context.Context, orchestrator *screener.Orchestrator, cfg *config.Config, outDir string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	orchestrator.SetProgressFunc(func(u screener.ProgressUpdate) {
		p := u.Progress
		if u.Failure != nil {
			fmt.Printf("[%d/%d] ✗ %-6s %s\n", p.Completed, p.Total, u.Symbol, u.Failure.Reason)
			return
		}
		fmt.Printf("[%d/%d] ✓ %-6s %5.1f %-10s elapsed %s eta %s\n",
			p.Completed, p.Total, u.Symbol, u.Result.FinalScore, u.Result.Rating,
			p.Elapsed.Round(time.Second), p.ETA.Round(time.Second))
	})

	spec := universe.SpecFromConfig(cfg.Universe)
	run, err := orchestrator.RunScreen(ctx, spec, scoring.CatalystOverrides{})
	if run == nil {
		observability.Fatal("screening run failed", "error", err)
	}
	if err != nil {
		observability.Error("screening run finished with errors", "error", err)
	}

	picksPath := filepath.Join(outDir, "top_picks.json")
	if err := screener.WriteTopPicksJSON(picksPath, run, cfg.Screener.TopPicksCount); err != nil {
		observability.Fatal("writing top picks artifact failed", "error", err)
	}
	csvPath := filepath.Join(outDir, "qualified.csv")
	if err := screener.WriteQualifiedCSV(csvPath, run); err != nil {
		observability.Fatal("writing qualified CSV artifact failed", "error", err)
	}

	p := run.Snapshot()
	fmt.Printf("\n%d screened, %d qualified, %d failed in %s\n",
		p.Completed, p.Qualified, p.Failed, p.Elapsed.Round(time.Second))
	fmt.Printf("artifacts: %s, %s\n", picksPath, csvPath)
}

// serve runs the HTTP API until SIGINT/SIGTERM, then shuts down gracefully.
func serve(router http.Handler, cfg *config.Config) {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		observability.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Fatal("HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		observability.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			observability.Error("graceful shutdown failed", "error", err)
		}
	}
}
