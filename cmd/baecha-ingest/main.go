package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"baecha/internal/amqp"
	"baecha/internal/config"
	applog "baecha/internal/log"
	"baecha/internal/services"
	gsheet "baecha/internal/sheets/google"
	"baecha/internal/sheets/workbook"
	"baecha/internal/storage"
)

const version = "1.2.0"

var (
	cfg     *config.Config
	layouts config.Layouts

	tabName string
	fileID  string
)

var rootCmd = &cobra.Command{
	Use:   "baecha-ingest",
	Short: "Ingest dispatch and transaction spreadsheets",
	Long: `baecha-ingest runs the spreadsheet extraction pipeline once:
fetch a dispatch or transaction sheet, parse it into records, merge the
monthly aggregates, and persist everything to the local store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env for local development; absent in production is fine
		_ = godotenv.Load()

		cfg = config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := applog.New(applog.Config{
			Level:     applog.ParseLevel(cfg.LogLevel),
			Component: applog.ComponentIngest,
		})
		applog.SetDefault(logger)

		var err error
		layouts, err = config.LoadLayouts(cfg.LayoutFile)
		if err != nil {
			return fmt.Errorf("load layouts: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

var sheetCmd = &cobra.Command{
	Use:   "sheet [spreadsheet-id]",
	Short: "Ingest a spreadsheet via the Google Sheets API",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source, err := gsheet.NewFromEnv(ctx, layouts.Transaction)
		if err != nil {
			return fmt.Errorf("sheets client: %w", err)
		}

		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer repo.Close()

		service := services.NewIngestService(source, repo, layouts.Dispatch, layouts.Transaction,
			services.WithFetchConcurrency(cfg.FetchConcurrency),
			services.WithFetchTimeout(cfg.FetchTimeout))

		if tabName != "" {
			id := argOr(args, cfg.TransactionSpreadsheetID)
			if id == "" {
				return fmt.Errorf("no spreadsheet id given and TRANSACTION_SPREADSHEET_ID unset")
			}
			result, err := service.IngestTransactionSheet(ctx, id, tabName)
			if err != nil {
				return err
			}
			printTransactionResult(result)
			return nil
		}

		id := argOr(args, cfg.DispatchSpreadsheetID)
		if id == "" {
			return fmt.Errorf("no spreadsheet id given and DISPATCH_SPREADSHEET_ID unset")
		}
		result, err := service.IngestDispatchSpreadsheet(ctx, id)
		if err != nil {
			return err
		}
		printDispatchResult(result)
		return nil
	},
}

var workbookCmd = &cobra.Command{
	Use:   "workbook <path.xlsx>",
	Short: "Ingest a local workbook copy of the same sheets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		wb, err := workbook.Open(args[0], layouts.Transaction)
		if err != nil {
			return err
		}
		defer wb.Close()
		if fileID != "" {
			wb = wb.WithFileID(fileID)
		}

		repo, err := storage.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer repo.Close()

		service := services.NewIngestService(wb, repo, layouts.Dispatch, layouts.Transaction,
			services.WithFetchConcurrency(cfg.FetchConcurrency),
			services.WithFetchTimeout(cfg.FetchTimeout))

		if tabName != "" {
			result, err := service.IngestTransactionSheet(ctx, "", tabName)
			if err != nil {
				return err
			}
			printTransactionResult(result)
			return nil
		}

		result, err := service.IngestDispatchSpreadsheet(ctx, "")
		if err != nil {
			return err
		}
		printDispatchResult(result)
		return nil
	},
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <dispatch|transaction> <spreadsheet-id>",
	Short: "Queue an ingest request for the worker instead of running it here",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := strings.ToLower(args[0])

		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("amqp client: %w", err)
		}
		defer client.Close()

		msg := amqp.NewFileIngestMessage(kind, args[1], tabName)
		if err := client.PublishFileIngest(cmd.Context(), msg); err != nil {
			return err
		}
		fmt.Printf("queued %s ingest %s (job %s)\n", kind, args[1], msg.JobID)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("baecha-ingest " + version)
	},
}

func argOr(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

func printDispatchResult(r services.IngestResult) {
	fmt.Printf("%s: %d tabs, %d dispatch records\n", r.FileName, r.Tabs, r.Records)
}

func printTransactionResult(r services.IngestResult) {
	fmt.Printf("%s: %d/%d rows processed (%d skipped, %d dropped), months: %s\n",
		r.FileName, r.ProcessedRows, r.TotalRows, r.SkippedRows, r.DroppedRows,
		strings.Join(r.Months, ", "))
}

func main() {
	sheetCmd.Flags().StringVar(&tabName, "tab", "", "transaction tab to ingest (omit for a dispatch ingest of all tabs)")
	workbookCmd.Flags().StringVar(&tabName, "tab", "", "transaction tab to ingest (omit for a dispatch ingest of all tabs)")
	workbookCmd.Flags().StringVar(&fileID, "file-id", "", "stable file id for idempotent re-ingestion of the same workbook")
	enqueueCmd.Flags().StringVar(&tabName, "tab", "", "transaction tab (required for transaction ingests)")

	rootCmd.AddCommand(sheetCmd, workbookCmd, enqueueCmd, versionCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
