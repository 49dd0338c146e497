package parse

import (
	"regexp"
	"strings"
)

// UnknownFacilityName is the terminal fallback of the contextual resolver.
const UnknownFacilityName = "Unknown Healthcare Facility"

// addressNamePatterns match "<street number> <words> <category>" business
// names embedded in an address. Tried in order; broader than the strict
// resolver's category patterns because back-fill tooling prefers a guess
// over a placeholder.
var addressNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Hospital|Medical|Health|Care|Center|Clinic|Group|Services|Healthcare))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Post|Legion|VFW|American Legion))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Senior|Living|Assisted|Nursing))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Hospice|Palliative))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Orthopaedic|Orthopedic|Surgical))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Rehabilitation|Rehab))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Community|Health Centers))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Memorial|St\. Francis|Penrose))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:VA|Veterans|Outpatient))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:PACE|InnovAge))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Home Health|Home Care))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Therapy|Therapeutic))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Behavioral|Mental Health))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Cancer|Oncology))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Women's|Obstetrics))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Emergency|ER))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Administrative|Admin))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Foundation|Fund))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Resort|Residential))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Plaza|Medical Plaza))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Pavilion|Tower))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Building|Complex))`),
	regexp.MustCompile(`(?i)(\d+\s+[A-Za-z\s&]+(?:Suite|Ste|Unit))`),
}

// notesNamePatterns are the same category shapes without the leading
// street number, applied to note text.
var notesNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Hospital|Medical|Health|Care|Center|Clinic|Group|Services|Healthcare))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Post|Legion|VFW|American Legion))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Senior|Living|Assisted|Nursing))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Hospice|Palliative))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Orthopaedic|Orthopedic|Surgical))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Rehabilitation|Rehab))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Community|Health Centers))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Memorial|St\. Francis|Penrose))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:VA|Veterans|Outpatient))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:PACE|InnovAge))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Home Health|Home Care))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Therapy|Therapeutic))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Behavioral|Mental Health))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Cancer|Oncology))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Women's|Obstetrics))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Emergency|ER))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Administrative|Admin))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Foundation|Fund))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Resort|Residential))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Plaza|Medical Plaza))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Pavilion|Tower))`),
	regexp.MustCompile(`(?i)([A-Za-z\s&]+(?:Building|Complex))`),
}

// trailingStreetTypeRe strips a dangling street-type token from an
// extracted business name.
var trailingStreetTypeRe = regexp.MustCompile(`(?i)\s+(St|Ave|Blvd|Dr|Rd|Cir|Pkwy|Way)\s*$`)

// streetNameRe captures the street-name words following the house number.
var streetNameRe = regexp.MustCompile(`\d+\s+([A-Za-z\s&]+)`)

// streetSuffixBuckets map street-name keywords to a generated facility
// suffix. First bucket containing a keyword of the street name wins.
var streetSuffixBuckets = []struct {
	keywords []string
	suffix   string
}{
	{[]string{"main", "primary", "central"}, "Healthcare Center"},
	{[]string{"union", "academy", "nevada"}, "Medical Center"},
	{[]string{"boulder", "platte", "tejon"}, "Healthcare Facility"},
	{[]string{"tenderfoot", "lake", "plaza"}, "Care Center"},
	{[]string{"international", "research", "briargate"}, "Medical Facility"},
	{[]string{"woodmen", "championship", "cordera"}, "Healthcare Services"},
	{[]string{"austin", "jeannine", "murray"}, "Health Center"},
	{[]string{"lehman", "goddard", "pulpit"}, "Medical Services"},
	{[]string{"pinon", "elkton", "centennial"}, "Healthcare Group"},
	{[]string{"bloomington", "monica", "southgate"}, "Care Services"},
	{[]string{"circle", "hancock", "parkside"}, "Medical Group"},
	{[]string{"van buren", "eighth", "southmoor"}, "Healthcare Center"},
}

// ResolveContextual infers a business name the permissive way used by
// batch import and repair tooling: category patterns in the address,
// then in the notes, then street-keyword suffix generation. It always
// returns a non-empty name.
func (r *Resolver) ResolveContextual(address string, notes []string) string {
	if name := nameFromAddressShape(address); name != "" {
		return name
	}
	if name := nameFromNotesShape(strings.Join(notes, " ")); name != "" {
		return name
	}
	return r.nameFromStreet(address)
}

// BestName picks the business name for an imported row: an existing
// non-generic name wins, otherwise the contextual inference runs.
func (r *Resolver) BestName(existing, address string, notes []string) string {
	existing = strings.TrimSpace(existing)
	if existing != "" && existing != "Unknown Facility" {
		return existing
	}
	return r.ResolveContextual(address, notes)
}

func nameFromAddressShape(address string) string {
	if address == "" {
		return ""
	}
	for _, re := range addressNamePatterns {
		m := re.FindStringSubmatch(address)
		if m == nil {
			continue
		}
		name := multiSpaceRe.ReplaceAllString(strings.TrimSpace(m[1]), " ")
		name = trailingStreetTypeRe.ReplaceAllString(name, "")
		return name
	}
	return ""
}

func nameFromNotesShape(notes string) string {
	if notes == "" {
		return ""
	}
	for _, re := range notesNamePatterns {
		m := re.FindStringSubmatch(notes)
		if m == nil {
			continue
		}
		return multiSpaceRe.ReplaceAllString(strings.TrimSpace(m[1]), " ")
	}
	return ""
}

// nameFromStreet generates "<street> <suffix>" from the street-keyword
// buckets, falling back to a generic facility name.
func (r *Resolver) nameFromStreet(address string) string {
	if address == "" {
		return UnknownFacilityName
	}
	m := streetNameRe.FindStringSubmatch(address)
	if m == nil {
		return UnknownFacilityName
	}
	street := strings.TrimSpace(m[1])
	lower := strings.ToLower(street)
	for _, bucket := range streetSuffixBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return street + " " + bucket.suffix
			}
		}
	}
	return street + " " + DefaultFacilityName
}

// streetWordPatterns extract the bare street name for repair naming.
var streetWordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\w+)\s+(?:St|Street|Ave|Avenue|Blvd|Boulevard|Rd|Road|Dr|Drive|Ln|Lane|Way|Ct|Court|Pl|Place)`),
	regexp.MustCompile(`(?i)(\w+)\s+(?:North|South|East|West|N|S|E|W)\s+(?:St|Street|Ave|Avenue|Blvd|Boulevard)`),
}

// streetStopwords reject non-street words from street-name extraction.
var streetStopwords = map[string]bool{
	"the": true, "at": true, "of": true, "and": true, "on": true,
	"in": true, "to": true, "for": true, "colorado": true,
	"springs": true, "denver": true,
}

// repairCenterStreets are street names whose repaired name takes the
// "Healthcare Center" suffix instead of "Healthcare Facility".
var repairCenterStreets = map[string]bool{
	"monaco": true, "arkansas": true, "morrison": true, "lowell": true,
	"downing": true, "harrison": true, "first": true, "mississippi": true,
}

// ExtractStreetName pulls the street name out of an address, title-cased.
// Returns false when no plausible street name is present.
func ExtractStreetName(address string) (string, bool) {
	if address == "" {
		return "", false
	}
	for _, re := range streetWordPatterns {
		m := re.FindStringSubmatch(address)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if !streetStopwords[strings.ToLower(name)] {
			return titleWord(name), true
		}
	}
	for _, word := range strings.Fields(address) {
		if isCapitalizedWord(word) && len(word) > 2 && !streetStopwords[strings.ToLower(word)] {
			return titleWord(word), true
		}
	}
	return "", false
}

// RepairName builds a replacement for a generic "Healthcare Facility"
// business name from the visit's address. Returns false when the address
// yields no street name to build from.
func RepairName(address string) (string, bool) {
	street, ok := ExtractStreetName(address)
	if !ok {
		return "", false
	}
	if repairCenterStreets[strings.ToLower(street)] {
		return street + " Healthcare Center", true
	}
	return street + " " + DefaultFacilityName, true
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
