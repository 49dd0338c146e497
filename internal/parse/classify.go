package parse

import (
	"strings"

	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
)

// timeKeywords are substrings that indicate a time-tracking sheet.
var timeKeywords = []string{
	"time tracking",
	"timesheet",
	"hours worked",
	"clock in",
	"clock out",
	"total hours",
	"pay period",
}

// routeKeywords are substrings that indicate a MyWay route manifest.
var routeKeywords = []string{
	"route",
	"stop",
	"visits",
	"address",
	"facility",
	"driver",
	"eta",
}

// classifyPageCount is how many leading pages the classifier inspects.
const classifyPageCount = 3

// Classifier decides which parser a PDF's text should be handed to.
// It never fails; anything it cannot place scores as a route manifest.
type Classifier struct{}

// Classify scores the first few pages of extracted text against both
// keyword vocabularies and returns the winning document kind. The
// time-tracking label requires a strictly higher score; ties and zero
// time scores fall back to the route kind.
func (Classifier) Classify(pages []string) model.DocumentKind {
	n := len(pages)
	if n > classifyPageCount {
		n = classifyPageCount
	}
	text := strings.ToLower(strings.Join(pages[:n], "\n"))

	var timeScore, routeScore int
	for _, kw := range timeKeywords {
		timeScore += strings.Count(text, kw)
	}
	for _, kw := range routeKeywords {
		routeScore += strings.Count(text, kw)
	}

	zap.L().Debug("classified document",
		zap.Int("time_score", timeScore),
		zap.Int("route_score", routeScore),
	)

	if timeScore > 0 && timeScore > routeScore {
		return model.KindTimeTracking
	}
	return model.KindMywayRoute
}
