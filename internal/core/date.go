package core

import (
	"fmt"
	"strconv"
	"time"
)

// Excel serial dates count days from 1899-12-30 (the off-by-two epoch that
// keeps serial 1 = 1900-01-01 despite the fictional 1900 leap day).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const (
	minExcelSerial = 1
	maxExcelSerial = 100000
)

// ExcelSerialToTime converts an Excel day serial. The integer part is the
// day offset from the epoch, the fraction is the time of day.
func ExcelSerialToTime(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	t := excelEpoch.AddDate(0, 0, days)
	return t.Add(time.Duration(frac * 24 * float64(time.Hour)))
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
}

// NormalizeDate turns a transaction-sheet date cell into a time.Time. A
// value is treated as an Excel serial only when the entire string parses
// as a bare number strictly inside (1, 100000); everything else goes
// through calendar-string parsing. Failures wrap ErrInvalidDateFormat.
func NormalizeDate(v string) (time.Time, error) {
	v = CleanString(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateFormat)
	}
	if IsBareNumber(v) {
		serial, err := strconv.ParseFloat(v, 64)
		if err == nil && serial > minExcelSerial && serial < maxExcelSerial {
			return ExcelSerialToTime(serial), nil
		}
		return time.Time{}, fmt.Errorf("%w: numeric value %q outside serial range", ErrInvalidDateFormat, v)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, v)
}
