package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careassist/routetrack/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_SaveVisits(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO visits`).
		WithArgs(pgxmock.AnyArg(), 1, "Memorial Hospital Central", "1400 E Boulder St", "Colorado Springs", "", date, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO visits`).
		WithArgs(pgxmock.AnyArg(), 2, "Healthcare Facility", "2222 N Nevada Ave", "Colorado Springs", "Rear entrance", date, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0)) // conflict, already saved

	saved, err := s.SaveVisits(context.Background(), testVisits(), date)
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateVisitBusinessName_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE visits SET business_name`).
		WithArgs("Nevada Healthcare Center", "no-such-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateVisitBusinessName(context.Background(), "no-such-id", "Nevada Healthcare Center")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveTimeEntry_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`ON CONFLICT \(entry_date\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), date, 7.5, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	e, err := s.SaveTimeEntry(context.Background(), date, 7.5)
	require.NoError(t, err)
	assert.Equal(t, date, e.EntryDate)
	assert.InDelta(t, 7.5, e.HoursWorked, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListGenericVisits(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
	created := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "stop_number", "business_name", "location", "city", "notes", "visit_date", "created_at"}).
		AddRow("visit-1", 2, "Healthcare Facility", "2222 N Nevada Ave", "Colorado Springs", "", date, created)

	mock.ExpectQuery(`WHERE business_name = \$1 OR business_name = \$2`).
		WithArgs("Healthcare Facility", "Unknown Facility").
		WillReturnRows(rows)

	got, err := s.ListGenericVisits(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "visit-1", got[0].ID)
	assert.Equal(t, "Healthcare Facility", got[0].BusinessName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveContact(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(pgxmock.AnyArg(), "John Smith", "John", "Smith", "Acmehealth", "",
			"(719) 555-0123", "john.smith@acmehealth.com", "", "", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	saved, err := s.SaveContact(context.Background(), model.Contact{
		Name:      "John Smith",
		FirstName: "John",
		LastName:  "Smith",
		Company:   "Acmehealth",
		Phone:     "(719) 555-0123",
		Email:     "john.smith@acmehealth.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
