package model

import "time"

// TimeSheetEntry is the result of scanning a time-tracking PDF.
// Either field may be nil when the corresponding value was not found;
// absence is a null result for the caller, not an error.
type TimeSheetEntry struct {
	Date       *string  `json:"date"`
	TotalHours *float64 `json:"total_hours"`
}

// TimeEntry is a persisted daily hours-worked record.
type TimeEntry struct {
	ID          string    `json:"id"`
	EntryDate   time.Time `json:"entry_date"`
	HoursWorked float64   `json:"hours_worked"`
	CreatedAt   time.Time `json:"created_at"`
}
