// Package worker consumes ingest requests from the queue and drives the
// pipeline. It owns no parsing logic; failures come back to the broker as
// nack-with-requeue so a transient sheet-read error gets retried.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"baecha/internal/amqp"
	"baecha/internal/services"
)

type IngestWorker struct {
	service *services.IngestService
}

func NewIngestWorker(service *services.IngestService) *IngestWorker {
	return &IngestWorker{service: service}
}

// HandleMessage processes one ingest request end to end.
func (w *IngestWorker) HandleMessage(ctx context.Context, msg *amqp.FileIngestMessage) error {
	switch msg.Kind {
	case amqp.KindDispatch:
		result, err := w.service.IngestDispatchSpreadsheet(ctx, msg.SpreadsheetID)
		if err != nil {
			return fmt.Errorf("dispatch ingest %s: %w", msg.SpreadsheetID, err)
		}
		slog.InfoContext(ctx, "Dispatch ingest complete",
			"job_id", msg.JobID,
			"file", result.FileName,
			"tabs", result.Tabs,
			"records", result.Records)
		return nil

	case amqp.KindTransaction:
		result, err := w.service.IngestTransactionSheet(ctx, msg.SpreadsheetID, msg.Tab)
		if err != nil {
			return fmt.Errorf("transaction ingest %s!%s: %w", msg.SpreadsheetID, msg.Tab, err)
		}
		slog.InfoContext(ctx, "Transaction ingest complete",
			"job_id", msg.JobID,
			"file", result.FileName,
			"processed", result.ProcessedRows,
			"dropped", result.DroppedRows,
			"total", result.TotalRows)
		return nil

	default:
		// Validate on the consume path should have caught this.
		return fmt.Errorf("unknown ingest kind %q", msg.Kind)
	}
}

// Run consumes until the context is cancelled.
func (w *IngestWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeFileIngest(ctx, func(msg *amqp.FileIngestMessage) error {
		return w.HandleMessage(ctx, msg)
	})
}
