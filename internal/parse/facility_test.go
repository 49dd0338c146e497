package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownFacility(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name    string
		address string
		notes   []string
		want    string
	}{
		{"from notes", "1400 E Boulder St", []string{"Pickup at UCHealth Memorial Hospital"}, "UCHealth Memorial Hospital Central"},
		{"short alias", "", []string{"memorial hospital discharge"}, "UCHealth Memorial Hospital Central"},
		{"from address", "Penrose Hospital, 2222 N Nevada Ave", nil, "Penrose Hospital"},
		{"case insensitive", "", []string{"PIKES PEAK HOSPICE front desk"}, "Pikes Peak Hospice"},
		{"er as whole word", "123 Main St", []string{"Meet at the ER entrance"}, "Emergency Room"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.address, tt.notes))
		})
	}
}

func TestResolveErDoesNotMatchInsideWords(t *testing.T) {
	r := NewResolver()

	// "manager" must not trip the "er" emergency-room keyword; the name
	// falls through to the capitalized-run tier.
	got := r.Resolve("6001 E Woodmen Rd", []string{"Lead case manager Gail Abeyta"})
	assert.Equal(t, "Woodmen", got)
}

func TestResolveCategoryPattern(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, "Flintridge", r.Resolve("Flintridge Care Center", nil))
}

func TestResolveCapitalizedRun(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		address string
		want    string
	}{
		{"4404 Austin Bluffs, Colorado Springs", "Austin Bluffs"},
		{"6001 E Woodmen Rd", "Woodmen"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Resolve(tt.address, nil))
	}
}

func TestResolveNotesFallback(t *testing.T) {
	r := NewResolver()

	got := r.Resolve("123 4th st", []string{"visit Summit Medical offices"})
	assert.Equal(t, "Summit Medical", got)
}

func TestResolveDefault(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, DefaultFacilityName, r.Resolve("123 4th st", nil))
	assert.Equal(t, DefaultFacilityName, r.Resolve("", nil))
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver()

	first := r.Resolve("1400 E Boulder St", []string{"memorial hospital"})
	for range 10 {
		assert.Equal(t, first, r.Resolve("1400 E Boulder St", []string{"memorial hospital"}))
	}
}

func TestNewResolverWithOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facilities.yaml")
	overlay := `
facilities:
  - keyword: sunny acres
    name: Sunny Acres Care Home
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	r, err := NewResolverWithOverlay(path)
	require.NoError(t, err)

	assert.Equal(t, "Sunny Acres Care Home", r.Resolve("", []string{"drop off at Sunny Acres"}))
	// Built-ins still resolve first.
	assert.Equal(t, "Penrose Hospital", r.Resolve("", []string{"penrose hospital"}))
}

func TestNewResolverWithOverlayErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewResolverWithOverlay(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("entry missing name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("facilities:\n  - keyword: x\n"), 0o644))
		_, err := NewResolverWithOverlay(path)
		assert.Error(t, err)
	})
}

func TestResolveContextual(t *testing.T) {
	r := NewResolver()

	t.Run("address shape", func(t *testing.T) {
		got := r.ResolveContextual("1400 E Boulder Medical Center", nil)
		assert.Equal(t, "1400 E Boulder Medical Center", got)
	})

	t.Run("notes shape", func(t *testing.T) {
		got := r.ResolveContextual("no address here", []string{"Flintridge Senior Living front door"})
		assert.Contains(t, got, "Senior")
	})

	t.Run("street suffix bucket", func(t *testing.T) {
		got := r.ResolveContextual("6001 E Woodmen Rd", nil)
		assert.Equal(t, "E Woodmen Rd Healthcare Services", got)
	})

	t.Run("no street", func(t *testing.T) {
		assert.Equal(t, UnknownFacilityName, r.ResolveContextual("", nil))
	})
}

func TestBestName(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, "Penrose Hospital", r.BestName("Penrose Hospital", "1400 E Boulder St", nil))
	assert.Equal(t, "E Woodmen Rd Healthcare Services", r.BestName("Unknown Facility", "6001 E Woodmen Rd", nil))
	assert.Equal(t, "E Woodmen Rd Healthcare Services", r.BestName("  ", "6001 E Woodmen Rd", nil))
}

func TestExtractStreetName(t *testing.T) {
	tests := []struct {
		address string
		want    string
		ok      bool
	}{
		{"123 Union Blvd", "Union", true},
		{"2510 Monaco Pkwy", "Monaco", true},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractStreetName(tt.address)
		assert.Equal(t, tt.ok, ok, tt.address)
		assert.Equal(t, tt.want, got, tt.address)
	}
}

func TestRepairName(t *testing.T) {
	t.Run("center street", func(t *testing.T) {
		got, ok := RepairName("2510 Monaco Pkwy")
		assert.True(t, ok)
		assert.Equal(t, "Monaco Healthcare Center", got)
	})

	t.Run("regular street", func(t *testing.T) {
		got, ok := RepairName("123 Union Blvd")
		assert.True(t, ok)
		assert.Equal(t, "Union Healthcare Facility", got)
	})

	t.Run("no street name", func(t *testing.T) {
		_, ok := RepairName("")
		assert.False(t, ok)
	})
}
