package dispatch

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// File names look like "배차표(2024년) ...", the year sitting right
	// after the fixed label and opening paren.
	fileYearPattern = regexp.MustCompile(`배차표\((\d{4})년`)

	// Tab names look like "3월5일" or "12월 31일".
	tabDatePattern = regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`)
)

// HasTabDate reports whether a tab name carries the month/day pattern.
// Multi-tab ingestion uses it to pass over summary tabs, whose resolved
// date would otherwise collide with a real day's.
func HasTabDate(tabName string) bool {
	return tabDatePattern.MatchString(tabName)
}

// ResolveSheetDate infers the calendar date a tab represents from the tab
// name and the containing file's name, as YYYY-MM-DD.
//
// When the tab name carries no month/day pattern the whole date, year
// included, falls back to now, ignoring any year in the file name. That
// asymmetry is historical but load-bearing: stored day ids are keyed by
// dates produced under this rule, so changing it would re-key previously
// ingested days.
func ResolveSheetDate(tabName, fileName string, now time.Time) string {
	md := tabDatePattern.FindStringSubmatch(tabName)
	if md == nil {
		return now.Format("2006-01-02")
	}
	month, _ := strconv.Atoi(md[1])
	day, _ := strconv.Atoi(md[2])

	year := now.Year()
	if ym := fileYearPattern.FindStringSubmatch(fileName); ym != nil {
		year, _ = strconv.Atoi(ym[1])
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
