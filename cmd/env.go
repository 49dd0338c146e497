package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/careassist/routetrack/internal/ocr"
	"github.com/careassist/routetrack/internal/parse"
	"github.com/careassist/routetrack/internal/store"
)

const dateLayout = "2006-01-02"

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func newParser() (*parse.Parser, error) {
	if cfg.Parse.FacilityOverlay == "" {
		return parse.NewParser(), nil
	}
	r, err := parse.NewResolverWithOverlay(cfg.Parse.FacilityOverlay)
	if err != nil {
		return nil, err
	}
	return parse.NewParserWithResolver(r), nil
}

func newExtractor() (ocr.Extractor, error) {
	return ocr.NewExtractor(cfg.OCR)
}

// resolveVisitDate parses the --date flag, defaulting to today.
func resolveVisitDate(flag string) (time.Time, error) {
	if flag == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dateLayout, flag)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse date %q (want YYYY-MM-DD)", flag)
	}
	return d, nil
}

// timesheetDate turns a scanned date string into a calendar date. Weekday
// names and unparseable strings fall back to the provided default.
func timesheetDate(scanned *string, fallback time.Time) time.Time {
	if scanned == nil {
		return fallback
	}
	for _, layout := range []string{"01/02/2006", "1/2/2006", "2006-01-02", "2006/1/2", "2006-1-2"} {
		if d, err := time.Parse(layout, *scanned); err == nil {
			return d
		}
	}
	return fallback
}
