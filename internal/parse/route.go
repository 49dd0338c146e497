package parse

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
)

// Stop numbers outside this range never reach output.
const (
	minStopNumber = 1
	maxStopNumber = 100
)

// minLocationLen is the shortest normalized address accepted as a
// visit location.
const minLocationLen = 10

// addressLookahead is how many lines past a stop-number line are scanned
// for a late-arriving address.
const addressLookahead = 2

// stopLineRe matches a line that opens a new stop: a leading integer
// followed by a separator.
var stopLineRe = regexp.MustCompile(`^(\d+)[.)\-\s]`)

// headerLineRe matches manifest header lines that are never stop notes.
var headerLineRe = regexp.MustCompile(`(?i)^(Route|Stop|Time|Date|Driver|Vehicle)`)

// DefaultCity is assigned to visits with no recognizable city override.
const DefaultCity = "Colorado Springs"

// cityOverrides are checked in order against address and notes; the
// first literal match wins.
var cityOverrides = []string{"Denver", "Pueblo"}

// RouteParser extracts visits from MyWay route manifest text. The state
// machine runs per page and is restarted at each page boundary; a stop
// whose address or notes span two pages is truncated, a documented
// limitation of the source documents' layout.
type RouteParser struct {
	resolver *Resolver
}

// NewRouteParser returns a RouteParser using the given name resolver.
func NewRouteParser(r *Resolver) *RouteParser {
	return &RouteParser{resolver: r}
}

// ParseText splits full document text into pages on form feeds and
// parses each page.
func (p *RouteParser) ParseText(text string) []model.Visit {
	return p.ParsePages(SplitPages(text))
}

// ParsePages runs the per-page state machine over each page and applies
// the batch clean pass to the combined results.
func (p *RouteParser) ParsePages(pages []string) []model.Visit {
	var visits []model.Visit
	for i, page := range pages {
		visits = append(visits, p.parsePage(page, i+1)...)
	}
	return cleanVisits(visits)
}

// candidate is the mutable accumulator for the stop currently being
// scanned.
type candidate struct {
	stop    int
	address string
	notes   []string
}

func (p *RouteParser) parsePage(page string, pageNum int) []model.Visit {
	lines := strings.Split(page, "\n")

	var visits []model.Visit
	var cur *candidate

	flush := func() {
		if cur == nil {
			return
		}
		if v := p.buildVisit(cur, pageNum); v != nil {
			visits = append(visits, *v)
		}
		cur = nil
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := stopLineRe.FindStringSubmatchIndex(line); m != nil {
			flush()

			stop, err := strconv.Atoi(line[m[2]:m[3]])
			if err != nil {
				zap.L().Warn("unparseable stop number, skipping line",
					zap.String("line", line), zap.Int("page", pageNum))
				continue
			}
			cur = &candidate{stop: stop}

			rest := strings.TrimSpace(line[m[1]:])
			if addr, ok := MatchAddress(rest); ok {
				cur.address = addr
				continue
			}
			// Address may arrive on one of the next few lines.
			for j := i + 1; j < len(lines) && j <= i+addressLookahead; j++ {
				if addr, ok := MatchAddress(lines[j]); ok {
					cur.address = addr
					break
				}
			}
			continue
		}

		if cur == nil {
			continue
		}

		if cur.address == "" {
			if addr, ok := MatchAddress(line); ok {
				cur.address = addr
			}
			continue
		}

		if !headerLineRe.MatchString(line) {
			cur.notes = append(cur.notes, line)
		}
	}

	flush()
	return visits
}

// buildVisit converts an accumulated candidate into a Visit, or nil when
// the stop is unrecoverable.
func (p *RouteParser) buildVisit(c *candidate, pageNum int) *model.Visit {
	if c.address == "" {
		zap.L().Warn("stop has no address, skipping",
			zap.Int("stop", c.stop), zap.Int("page", pageNum))
		return nil
	}

	joined := strings.Join(c.notes, " ")

	city := DefaultCity
	for _, name := range cityOverrides {
		if strings.Contains(c.address, name) || strings.Contains(joined, name) {
			city = name
			break
		}
	}

	return &model.Visit{
		StopNumber:   c.stop,
		BusinessName: p.resolver.Resolve(c.address, c.notes),
		Location:     NormalizeAddress(c.address),
		City:         city,
		Notes:        strings.TrimSpace(joined),
	}
}

// cleanVisits applies the batch post-pass: drop short locations and
// out-of-range stops, deduplicate by stop number keeping the first
// occurrence, and sort ascending.
func cleanVisits(visits []model.Visit) []model.Visit {
	seen := make(map[int]bool, len(visits))
	cleaned := make([]model.Visit, 0, len(visits))

	for _, v := range visits {
		if seen[v.StopNumber] {
			continue
		}
		if len(v.Location) < minLocationLen {
			continue
		}
		if v.StopNumber < minStopNumber || v.StopNumber > maxStopNumber {
			continue
		}
		seen[v.StopNumber] = true
		cleaned = append(cleaned, v)
	}

	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].StopNumber < cleaned[j].StopNumber
	})
	return cleaned
}
