// Package storage persists extraction output in SQLite. It is the single
// collaborator touching the database; parsers and the aggregate engine
// stay pure and the repository owns the transactional read-modify-write.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"baecha/internal/aggregate"
	"baecha/internal/core"

	_ "modernc.org/sqlite"
)

// maxWriteBatch is the hard per-statement write ceiling. Output is
// chunked to it before any multi-row insert.
const maxWriteBatch = 500

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceDispatchDay stores the full record list for one date,
// superseding any prior extraction of the same tab. The list is stored
// as one JSON document per day: all records from a tab share the date id
// and always travel together.
func (r *Repository) ReplaceDispatchDay(ctx context.Context, date string, sheetID int64, records []core.DispatchRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal dispatch records: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO dispatch_days (date, sheet_id, records, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			sheet_id = excluded.sheet_id,
			records = excluded.records,
			updated_at = excluded.updated_at`,
		date, sheetID, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("replace dispatch day %s: %w", date, err)
	}

	slog.InfoContext(ctx, "Dispatch day replaced", "date", date, "records", len(records))
	return nil
}

// GetDispatchDay returns the stored record list for a date, or nil when
// the day has never been ingested.
func (r *Repository) GetDispatchDay(ctx context.Context, date string) ([]core.DispatchRecord, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT records FROM dispatch_days WHERE date = ?`, date).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dispatch day %s: %w", date, err)
	}

	var records []core.DispatchRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("unmarshal dispatch day %s: %w", date, err)
	}
	return records, nil
}

// ReplaceTransactionRows deletes every row previously ingested for the
// file and reinserts the new batch. Row ids are deterministic per file
// and physical row, so this is a complete, idempotent replace. Inserts
// are chunked to the write ceiling inside one transaction.
func (r *Repository) ReplaceTransactionRows(ctx context.Context, fileID string, rows []core.TransactionRow) error {
	if fileID == "" {
		return core.ErrEmptyFileID
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transaction_rows WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("delete rows for file %s: %w", fileID, err)
	}

	for _, batch := range chunk(rows, maxWriteBatch) {
		for _, row := range batch {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO transaction_rows
					(id, file_id, file_name, date, vehicle_number, route,
					 weight, unit_price, supplier, billed_amount,
					 payout_amount, note, payment)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				row.ID, row.FileID, row.FileName,
				row.Date.Format("2006-01-02"),
				row.VehicleNumber, row.Route, row.Weight, row.UnitPrice,
				row.Supplier, row.BilledAmount, row.PayoutAmount,
				row.Note, row.Payment); err != nil {
				return fmt.Errorf("insert row %s: %w", row.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction rows replaced", "file_id", fileID, "rows", len(rows))
	return nil
}

// GetTransactionRows returns the stored rows for a file, ordered by id.
func (r *Repository) GetTransactionRows(ctx context.Context, fileID string) ([]core.TransactionRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_id, file_name, date, vehicle_number, route,
		       weight, unit_price, supplier, billed_amount, payout_amount,
		       note, payment
		FROM transaction_rows WHERE file_id = ? ORDER BY id`, fileID)
	if err != nil {
		return nil, fmt.Errorf("query rows for file %s: %w", fileID, err)
	}
	defer rows.Close()

	var out []core.TransactionRow
	for rows.Next() {
		var row core.TransactionRow
		var date string
		if err := rows.Scan(&row.ID, &row.FileID, &row.FileName, &date,
			&row.VehicleNumber, &row.Route, &row.Weight, &row.UnitPrice,
			&row.Supplier, &row.BilledAmount, &row.PayoutAmount,
			&row.Note, &row.Payment); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		row.Date, err = time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetMonthlyAggregate returns the stored aggregate for a month id
// ("YYYY-MM"), or nil when the month has never been touched.
func (r *Repository) GetMonthlyAggregate(ctx context.Context, id string) (*core.MonthlyAggregate, error) {
	agg, err := scanAggregate(r.db.QueryRowContext(ctx, `
		SELECT id, year, month, total_billed, total_payout, record_count,
		       source_files, raw_data_ids, last_updated
		FROM monthly_aggregates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get monthly aggregate %s: %w", id, err)
	}
	return agg, nil
}

// MergeMonthlyAggregate folds a delta into the stored aggregate for the
// same month inside one database transaction: read, id-set-difference
// merge, write back. Within this process the transaction serializes
// concurrent merges of the same month; across processes last-write-wins,
// which callers accept (the merge itself never double-counts).
func (r *Repository) MergeMonthlyAggregate(ctx context.Context, delta core.MonthlyAggregate, rows []core.TransactionRow) (core.MonthlyAggregate, aggregate.Stats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.MonthlyAggregate{}, aggregate.Stats{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := scanAggregate(tx.QueryRowContext(ctx, `
		SELECT id, year, month, total_billed, total_payout, record_count,
		       source_files, raw_data_ids, last_updated
		FROM monthly_aggregates WHERE id = ?`, delta.ID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return core.MonthlyAggregate{}, aggregate.Stats{}, fmt.Errorf("read aggregate %s: %w", delta.ID, err)
	}

	merged, stats := aggregate.Merge(existing, delta, rows, time.Now().UTC())

	sourceFiles, err := json.Marshal(merged.SourceFiles)
	if err != nil {
		return core.MonthlyAggregate{}, aggregate.Stats{}, fmt.Errorf("marshal source files: %w", err)
	}
	rawIDs, err := json.Marshal(merged.RawDataIDs)
	if err != nil {
		return core.MonthlyAggregate{}, aggregate.Stats{}, fmt.Errorf("marshal raw data ids: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO monthly_aggregates
			(id, year, month, total_billed, total_payout, record_count,
			 source_files, raw_data_ids, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total_billed = excluded.total_billed,
			total_payout = excluded.total_payout,
			record_count = excluded.record_count,
			source_files = excluded.source_files,
			raw_data_ids = excluded.raw_data_ids,
			last_updated = excluded.last_updated`,
		merged.ID, merged.Year, merged.Month, merged.TotalBilled,
		merged.TotalPayout, merged.RecordCount, string(sourceFiles),
		string(rawIDs), merged.LastUpdated); err != nil {
		return core.MonthlyAggregate{}, aggregate.Stats{}, fmt.Errorf("write aggregate %s: %w", merged.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return core.MonthlyAggregate{}, aggregate.Stats{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Monthly aggregate merged",
		"month", merged.ID,
		"new_rows", stats.NewRows,
		"duplicate_rows", stats.DuplicateRows)
	return merged, stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAggregate(row rowScanner) (*core.MonthlyAggregate, error) {
	var (
		agg         core.MonthlyAggregate
		sourceFiles string
		rawIDs      string
	)
	if err := row.Scan(&agg.ID, &agg.Year, &agg.Month, &agg.TotalBilled,
		&agg.TotalPayout, &agg.RecordCount, &sourceFiles, &rawIDs,
		&agg.LastUpdated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sourceFiles), &agg.SourceFiles); err != nil {
		return nil, fmt.Errorf("unmarshal source files: %w", err)
	}
	if err := json.Unmarshal([]byte(rawIDs), &agg.RawDataIDs); err != nil {
		return nil, fmt.Errorf("unmarshal raw data ids: %w", err)
	}
	return &agg, nil
}

// chunk splits items into slices of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
