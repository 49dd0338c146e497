// Package store persists extracted visits, time entries, and contacts.
// Two backends are provided: SQLite for single-user local use and
// Postgres for the shared upload server.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/careassist/routetrack/internal/config"
	"github.com/careassist/routetrack/internal/model"
)

// VisitFilter specifies criteria for listing visits.
type VisitFilter struct {
	Date   *time.Time `json:"date,omitempty"`
	City   string     `json:"city,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

// Store defines the persistence interface for the extraction engine.
type Store interface {
	// Visits
	SaveVisits(ctx context.Context, visits []model.Visit, visitDate time.Time) (int, error)
	ListVisits(ctx context.Context, filter VisitFilter) ([]model.StoredVisit, error)
	ListGenericVisits(ctx context.Context) ([]model.StoredVisit, error)
	UpdateVisitBusinessName(ctx context.Context, visitID, businessName string) error

	// Time entries
	SaveTimeEntry(ctx context.Context, entryDate time.Time, hoursWorked float64) (*model.TimeEntry, error)
	ListTimeEntries(ctx context.Context, limit int) ([]model.TimeEntry, error)

	// Contacts
	SaveContact(ctx context.Context, contact model.Contact) (*model.StoredContact, error)
	ListContacts(ctx context.Context, limit int) ([]model.StoredContact, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// genericNames are the resolver fallbacks; visits carrying one of these
// are candidates for name repair.
var genericNames = []string{"Healthcare Facility", "Unknown Facility"}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
