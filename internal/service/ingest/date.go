package ingest

import (
	"regexp"
	"time"
)

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// ReportDate takes the first YYYY-MM-DD found in the file name, or now's date.
func ReportDate(fileName string, now time.Time) string {
	if d := datePattern.FindString(fileName); d != "" {
		return d
	}
	return now.Format(time.DateOnly)
}
