package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/export"
	"github.com/careassist/routetrack/internal/store"
)

var (
	exportOut  string
	exportCity string
	exportDate string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored visits and hours to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.VisitFilter{City: exportCity}
		if exportDate != "" {
			d, err := resolveVisitDate(exportDate)
			if err != nil {
				return err
			}
			filter.Date = &d
		}

		out := exportOut
		if out == "" {
			out = cfg.Export.Path
		}

		if err := export.NewWorkbook(st).Write(ctx, out, filter); err != nil {
			return err
		}
		zap.L().Info("export complete", zap.String("path", out))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default from config)")
	exportCmd.Flags().StringVar(&exportCity, "city", "", "only visits in this city")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "only visits on this date YYYY-MM-DD")
	rootCmd.AddCommand(exportCmd)
}
