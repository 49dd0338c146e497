package parse

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultFacilityName is the terminal fallback of the strict resolver.
const DefaultFacilityName = "Healthcare Facility"

// FacilityEntry pairs a lowercase keyword with the canonical facility name
// it resolves to. Entries are matched in slice order; the first keyword
// found in the search text wins, so ordering is load-bearing.
type FacilityEntry struct {
	Keyword string `yaml:"keyword"`
	Name    string `yaml:"name"`
}

// knownFacilities is the built-in table of healthcare facilities in the
// Colorado Springs service area.
var knownFacilities = []FacilityEntry{
	{"uchealth memorial hospital", "UCHealth Memorial Hospital Central"},
	{"uchealth memorial", "UCHealth Memorial Hospital Central"},
	{"memorial hospital", "UCHealth Memorial Hospital Central"},
	{"pikes peak hospice", "Pikes Peak Hospice"},
	{"independence center", "The Independence Center"},
	{"penrose hospital", "Penrose Hospital"},
	{"centura health", "Centura Health"},
	{"st francis medical center", "St. Francis Medical Center"},
	{"children's hospital colorado", "Children's Hospital Colorado"},
	{"peaks recovery center", "Peaks Recovery Center"},
	{"cedar springs hospital", "Cedar Springs Hospital"},
	{"parkview medical center", "Parkview Medical Center"},
	{"st mary corwin", "St. Mary-Corwin Medical Center"},
	{"healthsouth", "HealthSouth Rehabilitation Hospital"},
	{"kindred hospital", "Kindred Hospital"},
	{"rehabilitation hospital", "Rehabilitation Hospital"},
	{"veterans affairs", "VA Medical Center"},
	{"va hospital", "VA Medical Center"},
	{"mountain view medical", "Mountain View Medical Center"},
	{"peak vista", "Peak Vista Community Health Centers"},
	{"community health", "Community Health Centers"},
	{"primary care", "Primary Care Clinic"},
	{"urgent care", "Urgent Care Center"},
	{"emergency room", "Emergency Room"},
	{"er", "Emergency Room"},
}

// categoryPatterns extract a street-name group preceding a healthcare
// category word inside an address. Tried in order.
var categoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Hospital|Medical Center|Health Center|Healthcare Center)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Care Center|Rehabilitation Center|Rehab Center)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Assisted Living|Senior Living|Memory Care)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Hospice|Palliative Care)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Clinic|Medical Clinic|Health Clinic)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Emergency Room|ER|Emergency Department)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Recovery|Treatment Center)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Internal Medicine|Family Medicine)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Post Acute|Skilled Nursing)`),
	regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*)\s+(?:Health Care|Healthcare)`),
}

// nameStopwords reject trivial captures from the category patterns.
var nameStopwords = map[string]bool{"the": true, "at": true, "of": true, "and": true}

// healthcareTerms gate the notes-fallback tier.
var healthcareTerms = []string{"hospital", "medical", "health", "clinic", "center", "care"}

// Resolver infers a human-readable business name from partial and noisy
// address plus free-text data. Resolve is the conservative tiered path
// used during live parsing; ResolveContextual is the broader inference
// used by back-fill and repair tooling. A Resolver is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	facilities []FacilityEntry
}

// NewResolver returns a Resolver seeded with the built-in facility table.
func NewResolver() *Resolver {
	return &Resolver{facilities: knownFacilities}
}

// NewResolverWithOverlay returns a Resolver whose facility table is the
// built-in table followed by the entries of the given YAML overlay file.
// Built-ins keep precedence; overlay order is preserved.
func NewResolverWithOverlay(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "parse: read facility overlay %s", path)
	}
	var overlay struct {
		Facilities []FacilityEntry `yaml:"facilities"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, eris.Wrap(err, "parse: parse facility overlay")
	}

	facilities := make([]FacilityEntry, 0, len(knownFacilities)+len(overlay.Facilities))
	facilities = append(facilities, knownFacilities...)
	for _, e := range overlay.Facilities {
		if e.Keyword == "" || e.Name == "" {
			return nil, eris.Errorf("parse: facility overlay entry missing keyword or name: %+v", e)
		}
		facilities = append(facilities, FacilityEntry{
			Keyword: strings.ToLower(e.Keyword),
			Name:    e.Name,
		})
	}
	return &Resolver{facilities: facilities}, nil
}

// Resolve returns a non-empty business name for the given address and
// notes. Tiers, first success wins: known-facility lookup, category
// pattern in the address, capitalized-run heuristic, notes fallback,
// then the generic placeholder.
func (r *Resolver) Resolve(address string, notes []string) string {
	search := strings.ToLower(address + " " + strings.Join(notes, " "))
	for _, f := range r.facilities {
		if containsKeyword(search, f.Keyword) {
			return f.Name
		}
	}
	for _, note := range notes {
		lower := strings.ToLower(note)
		for _, f := range r.facilities {
			if containsKeyword(lower, f.Keyword) {
				return f.Name
			}
		}
	}

	if name := nameFromCategoryPatterns(address); name != "" {
		return name
	}
	if name := capitalizedRun(address); name != "" {
		return name
	}
	if name := nameFromNotes(notes); name != "" {
		return name
	}
	return DefaultFacilityName
}

// nameFromCategoryPatterns extracts the street-name group preceding a
// healthcare category word, rejecting trivial captures.
func nameFromCategoryPatterns(address string) string {
	for _, re := range categoryPatterns {
		m := re.FindStringSubmatch(address)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if len(name) > 2 && !nameStopwords[strings.ToLower(name)] {
			return name
		}
	}
	return ""
}

// capitalizedRun accumulates consecutive capitalized words (>= 3 chars,
// not street-type tokens) from the street portion of the address. The run
// ends at the first non-qualifying word after it has started.
func capitalizedRun(address string) string {
	street, _, _ := strings.Cut(address, ",")
	var run []string
	for _, word := range strings.Fields(street) {
		if isCapitalizedWord(word) && len(word) > 2 && !streetTypeTokens[strings.ToLower(word)] {
			run = append(run, word)
		} else if len(run) > 0 {
			break
		}
	}
	if name := strings.Join(run, " "); len(name) > 3 {
		return name
	}
	return ""
}

// nameFromNotes returns the first up-to-3 capitalized words of the first
// note that mentions a healthcare term.
func nameFromNotes(notes []string) string {
	for _, note := range notes {
		lower := strings.ToLower(note)
		matched := false
		for _, term := range healthcareTerms {
			if strings.Contains(lower, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		var words []string
		for _, w := range strings.Fields(note) {
			if isCapitalizedWord(w) && len(w) > 2 {
				words = append(words, w)
				if len(words) == 3 {
					break
				}
			}
		}
		if len(words) > 0 {
			return strings.Join(words, " ")
		}
	}
	return ""
}

// containsKeyword reports whether text contains the facility keyword.
// Keywords of one or two characters ("er") match only as whole words;
// everything longer matches as a plain substring.
func containsKeyword(text, keyword string) bool {
	if len(keyword) > 2 {
		return strings.Contains(text, keyword)
	}
	for _, w := range strings.Fields(text) {
		if strings.Trim(w, ".,;:()") == keyword {
			return true
		}
	}
	return false
}

func isCapitalizedWord(w string) bool {
	if w == "" {
		return false
	}
	c := w[0]
	return c >= 'A' && c <= 'Z'
}
