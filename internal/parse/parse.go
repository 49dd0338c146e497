// Package parse is the document-to-record extraction engine: it
// classifies extracted PDF text as a route manifest or a time-tracking
// sheet and converts it into typed visit or hours records. All parsing
// is pure and synchronous; a Parser is safe for concurrent use.
package parse

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
)

// DocumentResult is the outcome of parsing one document. Exactly one of
// Visits and Timesheet is populated, according to Kind.
type DocumentResult struct {
	Kind      model.DocumentKind    `json:"type"`
	Visits    []model.Visit         `json:"visits,omitempty"`
	Timesheet *model.TimeSheetEntry `json:"timesheet,omitempty"`
}

// Parser ties the classifier and the two document parsers together.
type Parser struct {
	classifier Classifier
	route      *RouteParser
	timesheet  TimesheetParser
	resolver   *Resolver
}

// NewParser returns a Parser with the built-in facility table.
func NewParser() *Parser {
	return NewParserWithResolver(NewResolver())
}

// NewParserWithResolver returns a Parser using the given resolver.
func NewParserWithResolver(r *Resolver) *Parser {
	return &Parser{
		route:    NewRouteParser(r),
		resolver: r,
	}
}

// Resolver exposes the parser's facility name resolver for tooling that
// needs the contextual path.
func (p *Parser) Resolver() *Resolver {
	return p.resolver
}

// ParseDocument classifies the extracted text and dispatches to the
// matching parser. Empty text is the unrecoverable per-document case.
func (p *Parser) ParseDocument(text string) (*DocumentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, eris.New("parse: document contains no extractable text")
	}

	pages := SplitPages(text)
	kind := p.classifier.Classify(pages)

	switch kind {
	case model.KindTimeTracking:
		entry := p.timesheet.Parse(text)
		return &DocumentResult{Kind: kind, Timesheet: &entry}, nil
	default:
		visits := p.route.ParsePages(pages)
		zap.L().Info("parsed route manifest",
			zap.Int("pages", len(pages)), zap.Int("visits", len(visits)))
		return &DocumentResult{Kind: kind, Visits: visits}, nil
	}
}

// SplitPages splits extracted PDF text into pages on form-feed markers,
// dropping empty trailing pages.
func SplitPages(text string) []string {
	pages := strings.Split(text, "\f")
	for len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}
