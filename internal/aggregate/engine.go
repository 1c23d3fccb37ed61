// Package aggregate computes per-month sums over transaction rows and
// merges fresh deltas into stored aggregates without double-counting.
package aggregate

import (
	"sort"
	"time"

	"baecha/internal/core"
)

// Stats counts what a merge actually did. It replaces the process-wide
// mutable counter the old system carried: callers get an explicit value
// back instead of ambient state, so parallel runs cannot cross-talk.
type Stats struct {
	NewRows       int
	DuplicateRows int
}

// ComputeDeltas groups rows by calendar month and sums the billed and
// payout fields, producing one aggregate per month touched by the batch.
// Output is ordered by month id so persistence is deterministic.
func ComputeDeltas(rows []core.TransactionRow, now time.Time) []core.MonthlyAggregate {
	byMonth := make(map[string]*core.MonthlyAggregate)
	for _, row := range rows {
		key := row.MonthKey()
		agg, ok := byMonth[key]
		if !ok {
			agg = &core.MonthlyAggregate{
				ID:          key,
				Year:        row.Date.Year(),
				Month:       int(row.Date.Month()),
				SourceFiles: core.NewStringSet(),
				RawDataIDs:  core.NewStringSet(),
				LastUpdated: now,
			}
			byMonth[key] = agg
		}
		agg.TotalBilled += row.BilledAmount
		agg.TotalPayout += row.PayoutAmount
		agg.RecordCount++
		agg.SourceFiles.Add(row.FileID)
		agg.RawDataIDs.Add(row.ID)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]core.MonthlyAggregate, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byMonth[k])
	}
	return out
}

// Merge folds a freshly computed delta into the stored aggregate for the
// same month. rows must contain the delta's underlying transaction rows.
//
// The only correct path goes through id-set difference: sum exactly the
// rows whose ids the stored aggregate has not seen. Adding the two
// partial sums directly double-counts whenever re-ingestion overlaps, so
// that variant does not exist here. With no id overlap the result equals
// the naive sum; with full overlap the stored aggregate comes back
// unchanged, which is what makes re-ingestion idempotent.
func Merge(existing *core.MonthlyAggregate, delta core.MonthlyAggregate, rows []core.TransactionRow, now time.Time) (core.MonthlyAggregate, Stats) {
	if existing == nil {
		out := delta
		out.LastUpdated = now
		return out, Stats{NewRows: len(delta.RawDataIDs)}
	}

	newIDs := delta.RawDataIDs.Diff(existing.RawDataIDs)
	if len(newIDs) == 0 {
		return *existing, Stats{DuplicateRows: len(delta.RawDataIDs)}
	}

	out := *existing
	for _, row := range rows {
		if row.MonthKey() != delta.ID || !newIDs.Has(row.ID) {
			continue
		}
		out.TotalBilled += row.BilledAmount
		out.TotalPayout += row.PayoutAmount
		out.RecordCount++
	}
	out.RawDataIDs = existing.RawDataIDs.Union(delta.RawDataIDs)
	out.SourceFiles = existing.SourceFiles.Union(delta.SourceFiles)
	out.LastUpdated = now

	return out, Stats{
		NewRows:       len(newIDs),
		DuplicateRows: len(delta.RawDataIDs) - len(newIDs),
	}
}
