package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
)

var (
	parseSave bool
	parseDate string
)

var parseCmd = &cobra.Command{
	Use:   "parse <pdf>",
	Short: "Extract visits or hours from a single PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		extractor, err := newExtractor()
		if err != nil {
			return err
		}
		parser, err := newParser()
		if err != nil {
			return err
		}

		text, err := extractor.ExtractText(ctx, args[0])
		if err != nil {
			return err
		}

		result, err := parser.ParseDocument(text)
		if err != nil {
			return err
		}

		if parseSave {
			date, err := resolveVisitDate(parseDate)
			if err != nil {
				return err
			}
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			switch result.Kind {
			case model.KindTimeTracking:
				if result.Timesheet.TotalHours == nil {
					return eris.New("parse: timesheet has no total hours to save")
				}
				entry, err := st.SaveTimeEntry(ctx, timesheetDate(result.Timesheet.Date, date), *result.Timesheet.TotalHours)
				if err != nil {
					return err
				}
				zap.L().Info("time entry saved",
					zap.String("date", entry.EntryDate.Format(dateLayout)),
					zap.Float64("hours", entry.HoursWorked),
				)
			default:
				saved, err := st.SaveVisits(ctx, result.Visits, date)
				if err != nil {
					return err
				}
				zap.L().Info("visits saved",
					zap.Int("parsed", len(result.Visits)),
					zap.Int("saved", saved),
					zap.String("date", date.Format(dateLayout)),
				)
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "persist extracted records")
	parseCmd.Flags().StringVar(&parseDate, "date", "", "visit date YYYY-MM-DD (default today)")
	rootCmd.AddCommand(parseCmd)
}
