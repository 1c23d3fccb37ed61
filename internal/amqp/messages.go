package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ingest kinds: which pipeline a message drives.
const (
	KindDispatch    = "dispatch"
	KindTransaction = "transaction"
)

// FileIngestMessage asks a worker to ingest one spreadsheet. Dispatch
// runs cover every tab of the file; transaction runs target one tab.
type FileIngestMessage struct {
	JobID         string    `json:"jobId"`
	Kind          string    `json:"kind"`
	SpreadsheetID string    `json:"spreadsheetId"`
	Tab           string    `json:"tab,omitempty"`
	RequestedAt   time.Time `json:"requestedAt"`
}

func NewFileIngestMessage(kind, spreadsheetID, tab string) *FileIngestMessage {
	return &FileIngestMessage{
		JobID:         uuid.New().String(),
		Kind:          kind,
		SpreadsheetID: spreadsheetID,
		Tab:           tab,
		RequestedAt:   time.Now(),
	}
}

func (m *FileIngestMessage) Validate() error {
	switch m.Kind {
	case KindDispatch:
	case KindTransaction:
		if m.Tab == "" {
			return fmt.Errorf("transaction ingest requires a tab")
		}
	default:
		return fmt.Errorf("unknown ingest kind %q", m.Kind)
	}
	if m.SpreadsheetID == "" {
		return fmt.Errorf("missing spreadsheet id")
	}
	return nil
}

func (m *FileIngestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func FileIngestMessageFromJSON(data []byte) (*FileIngestMessage, error) {
	var msg FileIngestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
