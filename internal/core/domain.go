package core

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	// ErrSheetDataUnavailable means the spreadsheet API returned no grid
	// data for the requested sheet. Fatal for that sheet-read; the caller
	// may surface it and retry, nothing here retries.
	ErrSheetDataUnavailable = errors.New("sheet data unavailable")

	// ErrInvalidDateFormat marks a cell value that is neither an Excel
	// serial number nor a parseable calendar date. Row-local: drop the
	// row, keep the batch going.
	ErrInvalidDateFormat = errors.New("invalid date format")

	ErrEmptyFileID = errors.New("empty file id")
)

// DispatchRecord is one (leg, vehicle) pairing extracted from a dispatch
// day tab. All records from the same tab share ID (the resolved date), so
// a stored day holds a list of records and a re-parse of the tab replaces
// the whole list.
type DispatchRecord struct {
	ID                string `json:"id"`
	Date              string `json:"date"`
	SheetID           int64  `json:"sheetId"`
	Supplier          string `json:"supplier"`
	VehicleNumber     string `json:"vehicleNumber"`
	DispatchType      string `json:"dispatchType"`
	LoadingLocation   string `json:"loadingLocation"`
	UnloadingLocation string `json:"unloadingLocation"`
	RotationCount     int    `json:"rotationCount"`
	LoadingMemo       string `json:"loadingMemo,omitempty"`
	UnloadingMemo     string `json:"unloadingMemo,omitempty"`
	Warning           string `json:"warning,omitempty"`
}

// TransactionRow is one physical row of the transaction sheet. ID is
// "<fileID>_<physicalRow>" where physicalRow is the 1-indexed sheet row;
// re-extracting the same file yields identical IDs, which is what makes
// delete-by-file-then-reinsert a complete replace.
type TransactionRow struct {
	ID            string    `json:"id"`
	FileID        string    `json:"fileId"`
	FileName      string    `json:"fileName"`
	Date          time.Time `json:"date"`
	VehicleNumber string    `json:"vehicleNumber"`
	Route         string    `json:"route"`
	Weight        float64   `json:"weight"`
	UnitPrice     float64   `json:"unitPrice"`
	Supplier      string    `json:"supplier"`
	BilledAmount  float64   `json:"billedAmount"`
	PayoutAmount  float64   `json:"payoutAmount"`
	Note          string    `json:"note"`
	Payment       string    `json:"payment"`
}

// MonthKey returns the aggregate id for the row's month, e.g. "2024-03".
func (t TransactionRow) MonthKey() string {
	return t.Date.Format("2006-01")
}

func (t TransactionRow) Validate() error {
	if strings.TrimSpace(t.FileID) == "" {
		return ErrEmptyFileID
	}
	if t.Date.IsZero() {
		return ErrInvalidDateFormat
	}
	return nil
}

// MonthlyAggregate holds the running sums for one calendar month.
// RawDataIDs is the dedup ledger: a merge may only add rows whose ids are
// not already present, otherwise re-ingestion double-counts.
type MonthlyAggregate struct {
	ID          string    `json:"id"` // YYYY-MM
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	TotalBilled float64   `json:"totalBilled"`
	TotalPayout float64   `json:"totalPayout"`
	RecordCount int       `json:"recordCount"`
	SourceFiles StringSet `json:"sourceFiles"`
	RawDataIDs  StringSet `json:"rawDataIds"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StringSet is a set of strings that marshals as a sorted JSON array, so
// persisted aggregates are byte-stable across re-ingestions.
type StringSet map[string]struct{}

func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Union returns a new set containing the members of both sets.
func (s StringSet) Union(other StringSet) StringSet {
	out := make(StringSet, len(s)+len(other))
	for v := range s {
		out.Add(v)
	}
	for v := range other {
		out.Add(v)
	}
	return out
}

// Diff returns the members of s not present in other.
func (s StringSet) Diff(other StringSet) StringSet {
	out := make(StringSet)
	for v := range s {
		if !other.Has(v) {
			out.Add(v)
		}
	}
	return out
}

func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}
