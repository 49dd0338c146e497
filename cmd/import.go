package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/model"
	"github.com/careassist/routetrack/internal/parse"
)

var importCSVPath string

// CSV column layout of exported visit history:
// date, stop_number, business_name, location, city, notes
const importColumns = 6

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import visit history from CSV, back-filling business names",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(importCSVPath)
		if err != nil {
			return eris.Wrapf(err, "import: open %s", importCSVPath)
		}
		defer f.Close() //nolint:errcheck

		parser, err := newParser()
		if err != nil {
			return err
		}
		resolver := parser.Resolver()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		r := csv.NewReader(f)
		r.FieldsPerRecord = -1

		var row, saved, skipped int
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return eris.Wrapf(err, "import: read row %d", row)
			}
			row++

			if row == 1 && strings.EqualFold(record[0], "date") {
				continue // header
			}
			if len(record) < importColumns {
				zap.L().Warn("malformed row, skipping", zap.Int("row", row), zap.Int("fields", len(record)))
				skipped++
				continue
			}

			date, err := resolveVisitDate(strings.TrimSpace(record[0]))
			if err != nil {
				zap.L().Warn("bad date, skipping row", zap.Int("row", row), zap.Error(err))
				skipped++
				continue
			}
			stop, err := strconv.Atoi(strings.TrimSpace(record[1]))
			if err != nil {
				zap.L().Warn("bad stop number, skipping row", zap.Int("row", row), zap.Error(err))
				skipped++
				continue
			}

			location := strings.TrimSpace(record[3])
			notes := strings.TrimSpace(record[5])

			visit := model.Visit{
				StopNumber:   stop,
				BusinessName: resolver.BestName(record[2], location, []string{notes}),
				Location:     parse.NormalizeAddress(location),
				City:         strings.TrimSpace(record[4]),
				Notes:        notes,
			}
			if visit.City == "" {
				visit.City = parse.DefaultCity
			}

			n, err := st.SaveVisits(ctx, []model.Visit{visit}, date)
			if err != nil {
				return eris.Wrapf(err, "import: save row %d", row)
			}
			saved += n
		}

		zap.L().Info("import complete",
			zap.String("csv", importCSVPath),
			zap.Int("saved", saved),
			zap.Int("skipped", skipped),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to CSV file (required)")
	_ = importCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(importCmd)
}
