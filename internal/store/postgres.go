package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/careassist/routetrack/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. It is satisfied by
// both *pgxpool.Pool and pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// the hot path: the upload server saves visits and time entries on every
// accepted PDF.
var preparedStatements = map[string]string{
	"insert_visit": `INSERT INTO visits (id, stop_number, business_name, location, city, notes, visit_date, created_at)
	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	 ON CONFLICT (visit_date, stop_number, location) DO NOTHING`,
	"save_time_entry": `INSERT INTO time_entries (id, entry_date, hours_worked, created_at) VALUES ($1, $2, $3, $4)
	 ON CONFLICT (entry_date) DO UPDATE SET hours_worked = EXCLUDED.hours_worked`,
	"update_visit_name": `UPDATE visits SET business_name = $1 WHERE id = $2`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool, used by tests with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS visits (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	stop_number   INTEGER NOT NULL,
	business_name TEXT NOT NULL,
	location      TEXT NOT NULL,
	city          TEXT NOT NULL,
	notes         TEXT NOT NULL DEFAULT '',
	visit_date    DATE NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (visit_date, stop_number, location)
);

CREATE TABLE IF NOT EXISTS time_entries (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	entry_date   DATE NOT NULL UNIQUE,
	hours_worked DOUBLE PRECISION NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
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
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_visits_visit_date ON visits(visit_date);
CREATE INDEX IF NOT EXISTS idx_visits_city ON visits(city);
CREATE INDEX IF NOT EXISTS idx_visits_business_name ON visits(business_name);
CREATE INDEX IF NOT EXISTS idx_time_entries_entry_date ON time_entries(entry_date);
CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveVisits(ctx context.Context, visits []model.Visit, visitDate time.Time) (int, error) {
	var saved int
	for _, v := range visits {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO visits (id, stop_number, business_name, location, city, notes, visit_date, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (visit_date, stop_number, location) DO NOTHING`,
			uuid.New().String(), v.StopNumber, v.BusinessName, v.Location, v.City, v.Notes,
			visitDate, time.Now().UTC(),
		)
		if err != nil {
			return saved, eris.Wrapf(err, "postgres: insert visit stop %d", v.StopNumber)
		}
		saved += int(tag.RowsAffected())
	}
	return saved, nil
}

func (s *PostgresStore) ListVisits(ctx context.Context, filter VisitFilter) ([]model.StoredVisit, error) {
	query := `SELECT id, stop_number, business_name, location, city, notes, visit_date, created_at FROM visits WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Date != nil {
		query += fmt.Sprintf(` AND visit_date = $%d`, argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.City != "" {
		query += fmt.Sprintf(` AND city = $%d`, argIdx)
		args = append(args, filter.City)
		argIdx++
	}
	query += ` ORDER BY visit_date DESC, stop_number ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list visits")
	}
	defer rows.Close()

	return scanVisitRows(rows)
}

func (s *PostgresStore) ListGenericVisits(ctx context.Context) ([]model.StoredVisit, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, stop_number, business_name, location, city, notes, visit_date, created_at FROM visits
		 WHERE business_name = $1 OR business_name = $2
		 ORDER BY visit_date DESC, stop_number ASC`,
		genericNames[0], genericNames[1],
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list generic visits")
	}
	defer rows.Close()

	return scanVisitRows(rows)
}

func (s *PostgresStore) UpdateVisitBusinessName(ctx context.Context, visitID, businessName string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE visits SET business_name = $1 WHERE id = $2`,
		businessName, visitID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update visit %s", visitID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("visit not found: %s", visitID)
	}
	return nil
}

func (s *PostgresStore) SaveTimeEntry(ctx context.Context, entryDate time.Time, hoursWorked float64) (*model.TimeEntry, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO time_entries (id, entry_date, hours_worked, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (entry_date) DO UPDATE SET hours_worked = EXCLUDED.hours_worked`,
		id, entryDate, hoursWorked, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: save time entry")
	}

	return &model.TimeEntry{
		ID:          id,
		EntryDate:   entryDate,
		HoursWorked: hoursWorked,
		CreatedAt:   now,
	}, nil
}

func (s *PostgresStore) ListTimeEntries(ctx context.Context, limit int) ([]model.TimeEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, entry_date, hours_worked, created_at FROM time_entries ORDER BY entry_date DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list time entries")
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		var e model.TimeEntry
		if err := rows.Scan(&e.ID, &e.EntryDate, &e.HoursWorked, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan time entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list time entries iterate")
}

func (s *PostgresStore) SaveContact(ctx context.Context, contact model.Contact) (*model.StoredContact, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contacts (id, name, first_name, last_name, company, title, phone, email, website, address, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, contact.Name, contact.FirstName, contact.LastName, contact.Company, contact.Title,
		contact.Phone, contact.Email, contact.Website, contact.Address, contact.Notes, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert contact")
	}

	return &model.StoredContact{ID: id, Contact: contact, CreatedAt: now}, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, limit int) ([]model.StoredContact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, first_name, last_name, company, title, phone, email, website, address, notes, created_at
		 FROM contacts ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list contacts")
	}
	defer rows.Close()

	var contacts []model.StoredContact
	for rows.Next() {
		var c model.StoredContact
		if err := rows.Scan(&c.ID, &c.Name, &c.FirstName, &c.LastName, &c.Company, &c.Title,
			&c.Phone, &c.Email, &c.Website, &c.Address, &c.Notes, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan contact")
		}
		contacts = append(contacts, c)
	}
	return contacts, eris.Wrap(rows.Err(), "postgres: list contacts iterate")
}

func scanVisitRows(rows pgx.Rows) ([]model.StoredVisit, error) {
	var visits []model.StoredVisit
	for rows.Next() {
		var v model.StoredVisit
		if err := rows.Scan(&v.ID, &v.StopNumber, &v.BusinessName, &v.Location, &v.City, &v.Notes, &v.VisitDate, &v.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan visit")
		}
		visits = append(visits, v)
	}
	return visits, eris.Wrap(rows.Err(), "postgres: list visits iterate")
}
