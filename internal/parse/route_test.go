package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouteParser() *RouteParser {
	return NewRouteParser(NewResolver())
}

func TestParsePage(t *testing.T) {
	page := `Route Sheet - March 6
1. 1400 E Boulder St
Patient pickup at Memorial Hospital
2) 2222 N Nevada Ave
Driver note: skip this line
Penrose Hospital entrance`

	visits := newTestRouteParser().ParsePages([]string{page})
	require.Len(t, visits, 2)

	assert.Equal(t, 1, visits[0].StopNumber)
	assert.Equal(t, "1400 E Boulder St", visits[0].Location)
	assert.Equal(t, "UCHealth Memorial Hospital Central", visits[0].BusinessName)
	assert.Equal(t, "Colorado Springs", visits[0].City)
	assert.Equal(t, "Patient pickup at Memorial Hospital", visits[0].Notes)

	assert.Equal(t, 2, visits[1].StopNumber)
	assert.Equal(t, "2222 N Nevada Ave", visits[1].Location)
	assert.Equal(t, "Penrose Hospital", visits[1].BusinessName)
	// Header-shaped lines never become notes.
	assert.NotContains(t, visits[1].Notes, "Driver note")
}

func TestParsePageAddressLookahead(t *testing.T) {
	page := `3 - arriving soon
1234 Academy Blvd`

	visits := newTestRouteParser().ParsePages([]string{page})
	require.Len(t, visits, 1)
	assert.Equal(t, 3, visits[0].StopNumber)
	assert.Equal(t, "1234 Academy Blvd", visits[0].Location)
}

func TestParsePageStopWithoutAddressDropped(t *testing.T) {
	page := `1. see front desk
nothing useful here`

	visits := newTestRouteParser().ParsePages([]string{page})
	assert.Empty(t, visits)
}

func TestCleanVisitsRules(t *testing.T) {
	page := `5. 9999 Briargate Blvd
2. 1234 Academy Blvd
2. 5678 Union Blvd
101. 1111 Cheyenne Rd
0. 2222 Platte Ave`

	visits := newTestRouteParser().ParsePages([]string{page})
	require.Len(t, visits, 2)

	// Sorted ascending, duplicate stop keeps the first occurrence,
	// out-of-range stops are gone.
	assert.Equal(t, 2, visits[0].StopNumber)
	assert.Equal(t, "1234 Academy Blvd", visits[0].Location)
	assert.Equal(t, 5, visits[1].StopNumber)
}

func TestParsePagesStateResetsPerPage(t *testing.T) {
	// Stop number on page 1, address on page 2: the state machine restarts
	// at the page boundary and the stop is lost.
	text := "1. Memorial visit pending\f1400 E Boulder St\nfollow-up notes"

	visits := newTestRouteParser().ParseText(text)
	assert.Empty(t, visits)
}

func TestBuildVisitCityOverride(t *testing.T) {
	page := `1. 777 Bannock St
Denver Health main campus
2. 400 W Colfax Ave
Pueblo satellite office
3. 1400 E Boulder St`

	visits := newTestRouteParser().ParsePages([]string{page})
	require.Len(t, visits, 3)
	assert.Equal(t, "Denver", visits[0].City)
	assert.Equal(t, "Pueblo", visits[1].City)
	assert.Equal(t, "Colorado Springs", visits[2].City)
}

func TestParsePageNormalizesLocation(t *testing.T) {
	page := `1. 1400 E Boulder   Street`

	visits := newTestRouteParser().ParsePages([]string{page})
	require.Len(t, visits, 1)
	assert.Equal(t, "1400 E Boulder St", visits[0].Location)
}

func TestShortLocationDropped(t *testing.T) {
	page := `1. 1 Elm St`

	visits := newTestRouteParser().ParsePages([]string{page})
	assert.Empty(t, visits)
}
