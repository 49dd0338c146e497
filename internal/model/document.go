package model

// DocumentKind labels the two PDF document types the pipeline understands.
type DocumentKind string

const (
	// KindTimeTracking is a caregiver time-tracking sheet.
	KindTimeTracking DocumentKind = "time_tracking"
	// KindMywayRoute is a MyWay daily route manifest.
	KindMywayRoute DocumentKind = "myway_route"
)
