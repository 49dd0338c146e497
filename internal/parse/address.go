package parse

import (
	"regexp"
	"strings"
)

// streetTypes is the alternation of street-type tokens a US address ends with.
const streetTypes = `(?:St|Street|Ave|Avenue|Blvd|Boulevard|Rd|Road|Dr|Drive|Way|Ln|Lane|Ct|Court|Pl|Place)`

// addressPatterns is tried in order; the first match wins. The bare shape
// comes first, then the variants carrying a city or state suffix.
var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s+[A-Za-z\s]+` + streetTypes),
	regexp.MustCompile(`(?i)\d+\s+[A-Za-z\s]+` + streetTypes + `,\s*Colorado Springs`),
	regexp.MustCompile(`(?i)\d+\s+[A-Za-z\s]+` + streetTypes + `,\s*CO`),
}

// MatchAddress returns the first US street-address substring found in text.
func MatchAddress(text string) (string, bool) {
	for _, re := range addressPatterns {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m), true
		}
	}
	return "", false
}

var multiSpaceRe = regexp.MustCompile(`\s+`)

// streetAbbrevs maps long street-type spellings to their canonical short
// form. Replacement order is fixed.
var streetAbbrevs = []struct {
	re    *regexp.Regexp
	short string
}{
	{regexp.MustCompile(`(?i)\bStreet\b`), "St"},
	{regexp.MustCompile(`(?i)\bAvenue\b`), "Ave"},
	{regexp.MustCompile(`(?i)\bBoulevard\b`), "Blvd"},
	{regexp.MustCompile(`(?i)\bRoad\b`), "Rd"},
	{regexp.MustCompile(`(?i)\bDrive\b`), "Dr"},
	{regexp.MustCompile(`(?i)\bLane\b`), "Ln"},
	{regexp.MustCompile(`(?i)\bCourt\b`), "Ct"},
	{regexp.MustCompile(`(?i)\bPlace\b`), "Pl"},
}

// NormalizeAddress collapses whitespace and standardizes street-type
// spellings to their short form.
func NormalizeAddress(address string) string {
	address = multiSpaceRe.ReplaceAllString(strings.TrimSpace(address), " ")
	for _, r := range streetAbbrevs {
		address = r.re.ReplaceAllString(address, r.short)
	}
	return address
}

// streetTypeTokens is the lowercase set of street-type words excluded from
// business-name runs.
var streetTypeTokens = map[string]bool{
	"st": true, "street": true, "ave": true, "avenue": true,
	"blvd": true, "boulevard": true, "rd": true, "road": true,
	"dr": true, "drive": true, "ln": true, "lane": true,
	"ct": true, "court": true, "pl": true, "place": true, "way": true,
}
