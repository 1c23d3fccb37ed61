// Package services orchestrates the extraction pipeline: fetch raw sheet
// data from a source, run the parsers, merge aggregates, persist.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"baecha/internal/aggregate"
	"baecha/internal/core"
	"baecha/internal/dispatch"
	"baecha/internal/grid"
	"baecha/internal/sheets"
	"baecha/internal/storage"
	"baecha/internal/transaction"
)

// IngestResult reports what one ingestion run did. Partial success is a
// normal outcome: some rows processed, some dropped, counts for both.
type IngestResult struct {
	FileID   string
	FileName string

	// Dispatch path
	Tabs    int
	Records int

	// Transaction path
	TotalRows     int
	ProcessedRows int
	SkippedRows   int
	DroppedRows   int
	Months        []string
}

// Store is the slice of the repository the service needs.
type Store interface {
	ReplaceDispatchDay(ctx context.Context, date string, sheetID int64, records []core.DispatchRecord) error
	ReplaceTransactionRows(ctx context.Context, fileID string, rows []core.TransactionRow) error
	MergeMonthlyAggregate(ctx context.Context, delta core.MonthlyAggregate, rows []core.TransactionRow) (core.MonthlyAggregate, aggregate.Stats, error)
}

var _ Store = (*storage.Repository)(nil)

// IngestService runs the pipeline against one source and one store.
type IngestService struct {
	source       sheets.Source
	store        Store
	parser       *dispatch.Parser
	extractor    *transaction.Extractor
	fetchers     int
	fetchTimeout time.Duration
	now          func() time.Time
}

type Option func(*IngestService)

// WithFetchConcurrency caps concurrent tab fetches (default 4).
func WithFetchConcurrency(n int) Option {
	return func(s *IngestService) {
		if n > 0 {
			s.fetchers = n
		}
	}
}

// WithFetchTimeout bounds the source-fetch phase of one ingest run.
// Zero leaves the caller's context as is.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *IngestService) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *IngestService) { s.now = now }
}

func NewIngestService(source sheets.Source, store Store, dispatchLayout dispatch.Layout, txLayout transaction.Layout, opts ...Option) *IngestService {
	s := &IngestService{
		source:    source,
		store:     store,
		parser:    dispatch.NewParser(dispatchLayout),
		extractor: transaction.NewExtractor(txLayout),
		fetchers:  4,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *IngestService) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.fetchTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.fetchTimeout)
}

// IngestDispatchSpreadsheet parses every dated tab of a dispatch
// spreadsheet and replaces the stored record list for each tab's
// resolved date. Tabs without the M월D일 pattern (summary tabs) are
// skipped: their resolved date would fall back to today and an empty
// parse would wipe today's real records. Tab grids are fetched
// concurrently; one failing tab fails the run, since a half-ingested
// spreadsheet is harder to reason about than a retried one.
func (s *IngestService) IngestDispatchSpreadsheet(ctx context.Context, spreadsheetID string) (IngestResult, error) {
	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	info, err := s.source.Describe(fctx, spreadsheetID)
	if err != nil {
		return IngestResult{}, fmt.Errorf("describe spreadsheet: %w", err)
	}
	result := IngestResult{FileID: info.ID, FileName: info.Title}

	tabs := make([]sheets.Tab, 0, len(info.Tabs))
	for _, tab := range info.Tabs {
		if !dispatch.HasTabDate(tab.Title) {
			slog.InfoContext(ctx, "Skipping tab without a date pattern",
				"file", info.Title, "tab", tab.Title)
			continue
		}
		tabs = append(tabs, tab)
	}

	grids := make([]grid.RawSheet, len(tabs))
	g, gctx := errgroup.WithContext(fctx)
	g.SetLimit(s.fetchers)
	for i, tab := range tabs {
		g.Go(func() error {
			raw, err := s.source.FetchGrid(gctx, spreadsheetID, tab.Title)
			if err != nil {
				return fmt.Errorf("tab %q: %w", tab.Title, err)
			}
			grids[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	now := s.now()
	for i, raw := range grids {
		tab := tabs[i]
		matrix, err := grid.Build(raw)
		if err != nil {
			return result, fmt.Errorf("tab %q: %w", tab.Title, err)
		}
		records := s.parser.Parse(matrix, raw.Rows, tab.SheetID, info.Title, tab.Title, now)
		date := dispatch.ResolveSheetDate(tab.Title, info.Title, now)
		if err := s.store.ReplaceDispatchDay(ctx, date, tab.SheetID, records); err != nil {
			return result, fmt.Errorf("tab %q: %w", tab.Title, err)
		}
		result.Tabs++
		result.Records += len(records)
		slog.InfoContext(ctx, "Dispatch tab ingested",
			"file", info.Title, "tab", tab.Title, "date", date, "records", len(records))
	}
	return result, nil
}

// IngestTransactionSheet extracts the transaction rows of one tab,
// replaces the file's stored rows, and merges the monthly aggregate for
// every month the batch touches. Rows with bad dates are dropped and
// counted, never aborting the batch, and a dropped row cannot disturb
// aggregates of unrelated months: only extracted rows reach the merge.
func (s *IngestService) IngestTransactionSheet(ctx context.Context, spreadsheetID, tab string) (IngestResult, error) {
	fctx, cancel := s.fetchContext(ctx)
	defer cancel()

	info, err := s.source.Describe(fctx, spreadsheetID)
	if err != nil {
		return IngestResult{}, fmt.Errorf("describe spreadsheet: %w", err)
	}

	cols, err := s.source.FetchColumns(fctx, spreadsheetID, tab)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetch columns: %w", err)
	}

	rows, stats := s.extractor.Extract(ctx, cols, info.ID, info.Title)
	result := IngestResult{
		FileID:        info.ID,
		FileName:      info.Title,
		TotalRows:     stats.Total,
		ProcessedRows: stats.Processed,
		SkippedRows:   stats.Skipped,
		DroppedRows:   stats.Dropped,
	}

	if err := s.store.ReplaceTransactionRows(ctx, info.ID, rows); err != nil {
		return result, fmt.Errorf("replace transaction rows: %w", err)
	}

	for _, delta := range aggregate.ComputeDeltas(rows, s.now()) {
		if _, _, err := s.store.MergeMonthlyAggregate(ctx, delta, rows); err != nil {
			return result, fmt.Errorf("merge aggregate %s: %w", delta.ID, err)
		}
		result.Months = append(result.Months, delta.ID)
	}

	slog.InfoContext(ctx, "Transaction sheet ingested",
		"file", info.Title,
		"tab", tab,
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"dropped", stats.Dropped,
		"months", len(result.Months))
	return result, nil
}
