// Package export writes stored visits and time entries to an Excel
// workbook for the care coordinator's weekly report.
package export

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
	"github.com/careassist/routetrack/internal/store"
)

const dateLayout = "2006-01-02"

// Workbook builds route-report workbooks from a Store.
type Workbook struct {
	store store.Store
}

// NewWorkbook creates a Workbook exporter.
func NewWorkbook(st store.Store) *Workbook {
	return &Workbook{store: st}
}

// Write queries visits and time entries and saves the workbook to path.
// The file has two sheets: Visits (one row per stop) and Daily Summary
// (one row per tracked day).
func (w *Workbook) Write(ctx context.Context, path string, filter store.VisitFilter) error {
	visits, err := w.store.ListVisits(ctx, filter)
	if err != nil {
		return eris.Wrap(err, "export: list visits")
	}
	entries, err := w.store.ListTimeEntries(ctx, 0)
	if err != nil {
		return eris.Wrap(err, "export: list time entries")
	}

	f := xlsx.NewFile()
	if err := addVisitsSheet(f, visits); err != nil {
		return err
	}
	if err := addSummarySheet(f, entries); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}

	zap.L().Info("workbook written",
		zap.String("path", path),
		zap.Int("visits", len(visits)),
		zap.Int("time_entries", len(entries)),
	)
	return nil
}

func addVisitsSheet(f *xlsx.File, visits []model.StoredVisit) error {
	sheet, err := f.AddSheet("Visits")
	if err != nil {
		return eris.Wrap(err, "export: add visits sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Date", "Stop", "Business Name", "Location", "City", "Notes"} {
		header.AddCell().Value = h
	}

	for _, v := range visits {
		row := sheet.AddRow()
		row.AddCell().Value = v.VisitDate.Format(dateLayout)
		row.AddCell().SetInt(v.StopNumber)
		row.AddCell().Value = v.BusinessName
		row.AddCell().Value = v.Location
		row.AddCell().Value = v.City
		row.AddCell().Value = v.Notes
	}
	return nil
}

func addSummarySheet(f *xlsx.File, entries []model.TimeEntry) error {
	sheet, err := f.AddSheet("Daily Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Date", "Hours Worked"} {
		header.AddCell().Value = h
	}

	var total float64
	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().Value = e.EntryDate.Format(dateLayout)
		row.AddCell().SetFloat(e.HoursWorked)
		total += e.HoursWorked
	}

	if len(entries) > 0 {
		row := sheet.AddRow()
		row.AddCell().Value = "Total"
		row.AddCell().SetFloat(total)
	}
	return nil
}
