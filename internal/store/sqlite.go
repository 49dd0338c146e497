package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/careassist/routetrack/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS visits (
	id            TEXT PRIMARY KEY,
	stop_number   INTEGER NOT NULL,
	business_name TEXT NOT NULL,
	location      TEXT NOT NULL,
	city          TEXT NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	visit_date    DATE NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (visit_date, stop_number, location)
);

CREATE TABLE IF NOT EXISTS time_entries (
	id           TEXT PRIMARY KEY,
	entry_date   DATE NOT NULL UNIQUE,
	hours_worked REAL NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	company    TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	website    TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_visits_visit_date ON visits(visit_date);
CREATE INDEX IF NOT EXISTS idx_visits_city ON visits(city);
CREATE INDEX IF NOT EXISTS idx_visits_business_name ON visits(business_name);
CREATE INDEX IF NOT EXISTS idx_time_entries_entry_date ON time_entries(entry_date);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveVisits inserts visits for the given date and returns the number of
// rows actually written. Re-importing the same route sheet is a no-op:
// rows that collide on (date, stop, location) are ignored.
func (s *SQLiteStore) SaveVisits(ctx context.Context, visits []model.Visit, visitDate time.Time) (int, error) {
	var saved int
	for _, v := range visits {
		res, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO visits (id, stop_number, business_name, location, city, notes, visit_date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), v.StopNumber, v.BusinessName, v.Location, v.City, v.Notes,
			visitDate.Format("2006-01-02"), time.Now().UTC(),
		)
		if err != nil {
			return saved, eris.Wrapf(err, "sqlite: insert visit stop %d", v.StopNumber)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return saved, eris.Wrap(err, "sqlite: rows affected")
		}
		saved += int(n)
	}
	return saved, nil
}

func (s *SQLiteStore) ListVisits(ctx context.Context, filter VisitFilter) ([]model.StoredVisit, error) {
	query := `SELECT id, stop_number, business_name, location, city, notes, visit_date, created_at FROM visits WHERE 1=1`
	var args []any

	if filter.Date != nil {
		query += ` AND visit_date = ?`
		args = append(args, filter.Date.Format("2006-01-02"))
	}
	if filter.City != "" {
		query += ` AND city = ?`
		args = append(args, filter.City)
	}
	query += ` ORDER BY visit_date DESC, stop_number ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list visits")
	}
	defer rows.Close()

	return scanVisits(rows)
}

func (s *SQLiteStore) ListGenericVisits(ctx context.Context) ([]model.StoredVisit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stop_number, business_name, location, city, notes, visit_date, created_at FROM visits
		 WHERE business_name = ? OR business_name = ?
		 ORDER BY visit_date DESC, stop_number ASC`,
		genericNames[0], genericNames[1],
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list generic visits")
	}
	defer rows.Close()

	return scanVisits(rows)
}

func (s *SQLiteStore) UpdateVisitBusinessName(ctx context.Context, visitID, businessName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE visits SET business_name = ? WHERE id = ?`,
		businessName, visitID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update visit %s", visitID)
	}
	return checkRowsAffected(res, "visit", visitID)
}

// SaveTimeEntry upserts the hours for a date. One entry per day; a
// re-scan of the same timesheet overwrites the previous value.
func (s *SQLiteStore) SaveTimeEntry(ctx context.Context, entryDate time.Time, hoursWorked float64) (*model.TimeEntry, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO time_entries (id, entry_date, hours_worked, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (entry_date) DO UPDATE SET hours_worked = excluded.hours_worked`,
		id, entryDate.Format("2006-01-02"), hoursWorked, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: save time entry")
	}

	return &model.TimeEntry{
		ID:          id,
		EntryDate:   entryDate,
		HoursWorked: hoursWorked,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) ListTimeEntries(ctx context.Context, limit int) ([]model.TimeEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entry_date, hours_worked, created_at FROM time_entries ORDER BY entry_date DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list time entries")
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		var e model.TimeEntry
		var entryDate string
		if err := rows.Scan(&e.ID, &entryDate, &e.HoursWorked, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan time entry")
		}
		e.EntryDate, err = time.Parse("2006-01-02", entryDate)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse entry date %s", entryDate)
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list time entries iterate")
}

func (s *SQLiteStore) SaveContact(ctx context.Context, contact model.Contact) (*model.StoredContact, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, first_name, last_name, company, title, phone, email, website, address, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, contact.Name, contact.FirstName, contact.LastName, contact.Company, contact.Title,
		contact.Phone, contact.Email, contact.Website, contact.Address, contact.Notes, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert contact")
	}

	return &model.StoredContact{ID: id, Contact: contact, CreatedAt: now}, nil
}

func (s *SQLiteStore) ListContacts(ctx context.Context, limit int) ([]model.StoredContact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, first_name, last_name, company, title, phone, email, website, address, notes, created_at
		 FROM contacts ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list contacts")
	}
	defer rows.Close()

	var contacts []model.StoredContact
	for rows.Next() {
		var c model.StoredContact
		if err := rows.Scan(&c.ID, &c.Name, &c.FirstName, &c.LastName, &c.Company, &c.Title,
			&c.Phone, &c.Email, &c.Website, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "sqlite: list contacts iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func scanVisits(rows *sql.Rows) ([]model.StoredVisit, error) {
	var visits []model.StoredVisit
	for rows.Next() {
		var v model.StoredVisit
		var visitDate string
		if err := rows.Scan(&v.ID, &v.StopNumber, &v.BusinessName, &v.Location, &v.City, &v.Notes, &visitDate, &v.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan visit")
		}
		d, err := time.Parse("2006-01-02", visitDate)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse visit date %s", visitDate)
		}
		v.VisitDate = d
		visits = append(visits, v)
	}
	return visits, eris.Wrap(rows.Err(), "sqlite: list visits iterate")
}
