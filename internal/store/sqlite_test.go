package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careassist/routetrack/internal/config"
	"github.com/careassist/routetrack/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testVisits() []model.Visit {
	return []model.Visit{
		{StopNumber: 1, BusinessName: "Memorial Hospital Central", Location: "1400 E Boulder St", City: "Colorado Springs"},
		{StopNumber: 2, BusinessName: "Healthcare Facility", Location: "2222 N Nevada Ave", City: "Colorado Springs", Notes: "Rear entrance"},
	}
}

// --- Visits ---

func TestSQLite_SaveAndListVisits(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	saved, err := st.SaveVisits(ctx, testVisits(), date)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	got, err := st.ListVisits(ctx, VisitFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].StopNumber)
	assert.Equal(t, "Memorial Hospital Central", got[0].BusinessName)
	assert.Equal(t, date, got[0].VisitDate)
}

func TestSQLite_SaveVisits_DuplicateIgnored(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	saved, err := st.SaveVisits(ctx, testVisits(), date)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	// Re-importing the same sheet writes nothing.
	saved, err = st.SaveVisits(ctx, testVisits(), date)
	require.NoError(t, err)
	assert.Equal(t, 0, saved)

	// Same stops on a different date are new rows.
	saved, err = st.SaveVisits(ctx, testVisits(), date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
}

func TestSQLite_ListVisits_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	d1 := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	_, err := st.SaveVisits(ctx, testVisits(), d1)
	require.NoError(t, err)
	_, err = st.SaveVisits(ctx, []model.Visit{
		{StopNumber: 1, BusinessName: "Denver Health", Location: "777 Bannock St", City: "Denver"},
	}, d2)
	require.NoError(t, err)

	byDate, err := st.ListVisits(ctx, VisitFilter{Date: &d1})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	byCity, err := st.ListVisits(ctx, VisitFilter{City: "Denver"})
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "Denver Health", byCity[0].BusinessName)

	limited, err := st.ListVisits(ctx, VisitFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_GenericVisitsAndRepair(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	_, err := st.SaveVisits(ctx, testVisits(), date)
	require.NoError(t, err)

	generic, err := st.ListGenericVisits(ctx)
	require.NoError(t, err)
	require.Len(t, generic, 1)
	assert.Equal(t, "Healthcare Facility", generic[0].BusinessName)

	require.NoError(t, st.UpdateVisitBusinessName(ctx, generic[0].ID, "Nevada Healthcare Center"))

	generic, err = st.ListGenericVisits(ctx)
	require.NoError(t, err)
	assert.Empty(t, generic)
}

func TestSQLite_UpdateVisitBusinessName_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateVisitBusinessName(context.Background(), "no-such-id", "Anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

// --- Time entries ---

func TestSQLite_SaveTimeEntry_UpsertPerDay(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	e, err := st.SaveTimeEntry(ctx, date, 7.5)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, e.HoursWorked, 0.001)

	// Re-scanning the same day replaces the hours.
	_, err = st.SaveTimeEntry(ctx, date, 8.0)
	require.NoError(t, err)

	entries, err := st.ListTimeEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 8.0, entries[0].HoursWorked, 0.001)
	assert.Equal(t, date, entries[0].EntryDate)
}

// --- Contacts ---

func TestSQLite_SaveAndListContacts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	saved, err := st.SaveContact(ctx, model.Contact{
		Name:    "John Smith",
		Email:   "john.smith@acmehealth.com",
		Company: "Acmehealth",
		Phone:   "(719) 555-0123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	contacts, err := st.ListContacts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "John Smith", contacts[0].Name)
	assert.Equal(t, "john.smith@acmehealth.com", contacts[0].Email)
}

// --- Open ---

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongodb"})
	assert.Error(t, err)
}

func TestOpen_SQLiteDefault(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "open.db")
	st, err := Open(context.Background(), config.StoreConfig{DatabaseURL: dbPath})
	require.NoError(t, err)
	require.NoError(t, st.Close())
}
