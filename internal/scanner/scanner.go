// Package scanner runs the full screening pipeline: fetch, volatility,
// filter, sentiment, rank.
package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"leapscan/internal/analyzer"
	"leapscan/internal/config"
	"leapscan/internal/logger"
	"leapscan/internal/news"
	"leapscan/internal/provider"
	"leapscan/internal/ranker"
	"leapscan/internal/sentiment"
	"leapscan/internal/trace"
	"leapscan/pkg/model"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int)

// Scanner performs parallel ticker screening
type Scanner struct {
	provider     provider.Provider
	estimator    *analyzer.VolatilityEstimator
	filter       *analyzer.Filter
	news         news.Source
	sentiment    *sentiment.Analyzer
	ranker       *ranker.Ranker
	criteria     model.FilterCriteria
	useSentiment bool
	maxHeadlines int
	workers      int
	timeout      time.Duration
	fetchTimeout time.Duration
	progressFunc ProgressCallback

	// now is swappable for the earnings-window tests
	now func() time.Time
}

// New creates a scanner wired from the configuration. src and classifier
// may be nil; sentiment then degrades to the neutral fallback.
func New(p provider.Provider, cfg *config.Config, src news.Source, classifier sentiment.Classifier) *Scanner {
	if src == nil {
		src = news.NoopSource{}
	}
	return &Scanner{
		provider:     p,
		estimator:    analyzer.NewVolatilityEstimator(cfg.Volatility.Window, cfg.Volatility.PeriodsPerYear),
		filter:       analyzer.NewFilter(cfg.Criteria, cfg.Weights),
		news:         src,
		sentiment:    sentiment.NewAnalyzer(classifier),
		ranker:       ranker.New(cfg.Sentiment.AdjustmentFactor),
		criteria:     cfg.Criteria,
		useSentiment: cfg.Sentiment.Enabled,
		maxHeadlines: cfg.Sentiment.MaxHeadlines,
		workers:      cfg.Scanner.Workers,
		timeout:      cfg.Scanner.Timeout,
		fetchTimeout: cfg.Scanner.FetchTimeout,
		now:          time.Now,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

type workerResult struct {
	candidate *ranker.Candidate
	failure   *model.FetchFailure
}

// Scan screens all symbols in parallel and returns the ranked result.
// One symbol's failure never affects another: failed symbols are
// reported in Failures and the rest of the run proceeds.
func (s *Scanner) Scan(ctx context.Context, universe string, symbols []string) (*model.ScanResult, error) {
	startTime := time.Now()
	runID := uuid.NewString()

	ctx, span := trace.StartSpan(ctx, "scan")
	defer span.End()

	result := &model.ScanResult{
		RunID:    runID,
		Universe: universe,
		Entries:  []model.RankedEntry{},
	}
	if len(symbols) == 0 {
		result.ScanTime = time.Since(startTime)
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger.Info(ctx, "starting scan",
		"run_id", runID, "universe", universe,
		"symbols", len(symbols), "workers", s.workers)

	jobChan := make(chan string, len(symbols))
	resultChan := make(chan workerResult, len(symbols))

	for _, sym := range symbols {
		jobChan <- sym
	}
	close(jobChan)

	var scannedCount int64

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sym := range jobChan {
				select {
				case <-ctx.Done():
					// Run deadline hit: keep draining so every queued
					// symbol shows up in the failure list.
					resultChan <- workerResult{failure: &model.FetchFailure{
						Symbol: sym,
						Reason: "run timeout",
					}}
				default:
					resultChan <- s.evaluate(ctx, sym)
				}

				count := atomic.AddInt64(&scannedCount, 1)
				if s.progressFunc != nil {
					s.progressFunc(int(count), len(symbols))
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var candidates []ranker.Candidate
	for r := range resultChan {
		if r.failure != nil {
			result.Failures = append(result.Failures, *r.failure)
		}
		if r.candidate != nil {
			candidates = append(candidates, *r.candidate)
		}
	}

	result.TotalScanned = len(symbols)
	result.Entries = s.ranker.Rank(candidates)
	result.ScanTime = time.Since(startTime)

	logger.Info(ctx, "scan complete",
		"run_id", runID, "entries", len(result.Entries),
		"failures", len(result.Failures), "took", result.ScanTime)
	return result, nil
}

// evaluate runs the pipeline for a single symbol. Any error is converted
// into a FetchFailure so the caller can report it without aborting.
func (s *Scanner) evaluate(ctx context.Context, symbol string) workerResult {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	record, err := s.provider.Fetch(fetchCtx, symbol)
	if err != nil {
		logger.Warn(ctx, "fetch failed", "symbol", symbol, "error", err)
		return workerResult{failure: &model.FetchFailure{Symbol: symbol, Reason: err.Error()}}
	}

	if s.earningsSoon(record) {
		return workerResult{failure: &model.FetchFailure{
			Symbol: symbol,
			Reason: "earnings within exclusion window",
		}}
	}

	vol := s.estimator.Estimate(symbol, record.History)
	screening := s.filter.Screen(record, vol)

	candidate := ranker.Candidate{
		Record:     record,
		Volatility: vol,
		Screening:  screening,
	}

	// Sentiment only for symbols that survive the filter; rejected
	// symbols never cost an API call.
	if screening.Pass && s.useSentiment {
		sr := s.sentiment.Analyze(ctx, symbol, s.headlines(ctx, symbol))
		candidate.Sentiment = &sr
	}

	return workerResult{candidate: &candidate}
}

// headlines fetches and truncates the news for one symbol. A source
// failure degrades to no headlines, which the analyzer maps to neutral.
func (s *Scanner) headlines(ctx context.Context, symbol string) []string {
	if s.news == nil || !s.news.IsAvailable() {
		return nil
	}
	heads, err := s.news.Headlines(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "headline fetch failed", "symbol", symbol, "error", err)
		return nil
	}
	if s.maxHeadlines > 0 && len(heads) > s.maxHeadlines {
		heads = heads[:s.maxHeadlines]
	}
	return heads
}

// earningsSoon reports whether the symbol has earnings inside the
// configured exclusion window. An unknown earnings date never excludes.
func (s *Scanner) earningsSoon(record *model.TickerRecord) bool {
	if s.criteria.ExcludeEarningsWithinDays <= 0 || record.EarningsDate == nil {
		return false
	}
	now := s.now()
	cutoff := now.AddDate(0, 0, s.criteria.ExcludeEarningsWithinDays)
	d := *record.EarningsDate
	return !d.Before(now) && !d.After(cutoff)
}
