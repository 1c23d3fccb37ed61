package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldFileID        = "file_id"
	FieldFileName      = "file_name"
	FieldSpreadsheetID = "spreadsheet_id"
	FieldTab           = "tab"
	FieldDate          = "date"
	FieldMonth         = "month"
	FieldRow           = "row"
	FieldJobID         = "job_id"

	FieldRecords       = "records"
	FieldRowsProcessed = "rows_processed"
	FieldRowsSkipped   = "rows_skipped"
	FieldRowsDropped   = "rows_dropped"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentIngest  = "ingest"
	ComponentSheets  = "sheets"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpFetch   = "fetch"
	OpParse   = "parse"
	OpExtract = "extract"
	OpMerge   = "merge"
	OpPersist = "persist"
	OpEnqueue = "enqueue"
)
