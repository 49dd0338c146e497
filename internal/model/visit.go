package model

import "time"

// Visit is a finalized route stop extracted from a route manifest.
type Visit struct {
	StopNumber   int    `json:"stop_number"`
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
	City         string `json:"city"`
	Notes        string `json:"notes"`
}

// StoredVisit is a Visit as persisted, with identity and dates.
type StoredVisit struct {
	ID string `json:"id"`
	Visit
	VisitDate time.Time `json:"visit_date"`
	CreatedAt time.Time `json:"created_at"`
}
