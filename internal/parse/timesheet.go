package parse

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
)

// datePatterns are tried in order per line; the first match anywhere in
// the document wins and is never overwritten.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b`),
	regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
}

// hoursPatterns are tried in order per line. Order is a deliberate
// precision/recall trade-off: the bare "N hours" pattern matches almost
// any number in the document and must stay last.
var hoursPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total:?\s*(\d+(?:\.\d+)?)\s*hours`),
	regexp.MustCompile(`(?i)hours:?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)total:?\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*hours`),
}

// TimesheetParser extracts a single (date, total hours) pair from
// time-tracking sheet text. Both fields are independent one-writer-wins
// scans; a field not found stays nil.
type TimesheetParser struct{}

// Parse scans the document line by line. Unparseable number fragments
// are skipped silently and scanning continues.
func (TimesheetParser) Parse(text string) model.TimeSheetEntry {
	var entry model.TimeSheetEntry

	for _, line := range strings.Split(text, "\n") {
		if entry.Date == nil {
			for _, re := range datePatterns {
				if m := re.FindString(line); m != "" {
					date := m
					entry.Date = &date
					break
				}
			}
		}

		if entry.TotalHours == nil {
			for _, re := range hoursPatterns {
				m := re.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				hours, err := strconv.ParseFloat(m[1], 64)
				if err != nil || hours < 0 {
					continue
				}
				entry.TotalHours = &hours
				break
			}
		}

		if entry.Date != nil && entry.TotalHours != nil {
			break
		}
	}

	if entry.Date == nil && entry.TotalHours == nil {
		zap.L().Warn("no date or hours found in timesheet text")
	}
	return entry
}
