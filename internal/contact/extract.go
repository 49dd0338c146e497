// Package contact extracts and normalizes contact records from OCR'd
// business-card text.
package contact

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/careassist/routetrack/internal/model"
)

var (
	emailRe   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe   = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	websiteRe = regexp.MustCompile(`(?:www\.)?[a-zA-Z0-9-]+\.[a-zA-Z]{2,}(?:/[^\s]*)?`)
	cardAddrRe = regexp.MustCompile(`\d+\s+[A-Za-z0-9\s,.-]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl)`)
)

// nameRejectKeywords disqualify a line from being a person name: company
// forms, facility words, and job titles.
var nameRejectKeywords = []string{
	"inc", "llc", "corp", "company", "hospital", "medical", "health",
	"center", "clinic", "manager", "director", "coordinator",
	"specialist", "nurse", "doctor",
}

// wordStoplist disqualifies individual words in the word-scan name
// strategy.
var wordStoplist = map[string]bool{
	"inc": true, "llc": true, "corp": true, "company": true,
	"hospital": true, "medical": true, "health": true, "center": true,
	"clinic": true, "the": true, "and": true, "of": true, "for": true,
}

// maxNameLineLen is the longest line still considered as a person name.
const maxNameLineLen = 30

var titleCaser = cases.Title(language.English)

// Extract parses OCR text into a contact record. Email and name use the
// documented heuristics; phone, website, and address are single-pattern
// best-effort captures. Fields that cannot be found stay empty.
func Extract(text string) model.Contact {
	c := model.Contact{Notes: strings.TrimSpace(text)}

	if email := emailRe.FindString(text); email != "" {
		c.Email = strings.ToLower(email)
		c.Company = companyFromEmail(c.Email)
	}
	if phone := phoneRe.FindString(text); phone != "" {
		c.Phone = phone
	}
	c.Website = findWebsite(text, c.Email)
	if addr := cardAddrRe.FindString(text); addr != "" {
		c.Address = strings.TrimSpace(addr)
	}

	name := nameFromLines(text)
	if name == "" {
		name = nameFromWords(text)
	}
	if name != "" {
		c.Name = name
		c.FirstName, c.LastName = splitName(name)
	} else {
		zap.L().Debug("no name found in card text")
	}

	return c
}

// companyFromEmail derives a company name from the first label of the
// email domain.
func companyFromEmail(email string) string {
	_, domain, ok := strings.Cut(email, "@")
	if !ok {
		return ""
	}
	label, _, _ := strings.Cut(domain, ".")
	label = strings.NewReplacer("-", " ", "_", " ").Replace(label)
	return titleCaser.String(label)
}

// findWebsite returns the first website-shaped match that is not just a
// fragment of the already-extracted email address.
func findWebsite(text, email string) string {
	for _, m := range websiteRe.FindAllString(text, -1) {
		if email != "" && strings.Contains(email, strings.ToLower(m)) {
			continue
		}
		return m
	}
	return ""
}

// nameFromLines scans the first few non-empty lines for one that looks
// like a person name.
func nameFromLines(text string) string {
	var checked int
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		checked++
		if checked > 3 {
			break
		}
		if looksLikeName(line) {
			return line
		}
	}
	return ""
}

// looksLikeName applies the line heuristic: no email, no digits, short,
// mixed case, no business or title keywords, and at least two
// capitalized words.
func looksLikeName(line string) bool {
	if strings.Contains(line, "@") {
		return false
	}
	if strings.ContainsAny(line, "0123456789") {
		return false
	}
	if len(line) > maxNameLineLen {
		return false
	}
	if line == strings.ToUpper(line) {
		return false
	}
	lower := strings.ToLower(line)
	for _, kw := range nameRejectKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	words := strings.Fields(line)
	if len(words) < 2 {
		return false
	}
	for _, w := range words {
		if w[0] < 'A' || w[0] > 'Z' {
			return false
		}
	}
	return true
}

// nameFromWords is the fallback strategy: collect capitalized alphabetic
// words not on the stoplist, and accept only when exactly 2 or 3 remain.
func nameFromWords(text string) string {
	var kept []string
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,;:()")
		if w == "" || strings.Contains(w, "@") || strings.ContainsAny(w, "0123456789") {
			continue
		}
		if wordStoplist[strings.ToLower(w)] {
			continue
		}
		if len(w) > 1 && w[0] >= 'A' && w[0] <= 'Z' && isAlphabetic(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) >= 2 && len(kept) <= 3 {
		return strings.Join(kept, " ")
	}
	return ""
}

func isAlphabetic(w string) bool {
	for _, r := range w {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// splitName divides a full name into first and last parts.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
