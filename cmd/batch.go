package main

import (
	"os/signal"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/careassist/routetrack/internal/model"
)

var (
	batchConcurrency int
	batchSave        bool
	batchDate        string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Parse every PDF in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pdfs, err := filepath.Glob(filepath.Join(args[0], "*.pdf"))
		if err != nil {
			return eris.Wrap(err, "batch: glob pdfs")
		}
		if len(pdfs) == 0 {
			zap.L().Info("no PDFs found", zap.String("dir", args[0]))
			return nil
		}

		extractor, err := newExtractor()
		if err != nil {
			return err
		}
		parser, err := newParser()
		if err != nil {
			return err
		}

		date, err := resolveVisitDate(batchDate)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		zap.L().Info("processing batch",
			zap.Int("pdfs", len(pdfs)),
			zap.Int("concurrency", batchConcurrency),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		var visitsSaved, entriesSaved, failed atomic.Int64

		for _, pdf := range pdfs {
			g.Go(func() error {
				log := zap.L().With(zap.String("pdf", filepath.Base(pdf)))

				text, err := extractor.ExtractText(gctx, pdf)
				if err != nil {
					failed.Add(1)
					log.Error("text extraction failed", zap.Error(err))
					return nil // don't abort the batch on individual failure
				}

				result, err := parser.ParseDocument(text)
				if err != nil {
					failed.Add(1)
					log.Error("parse failed", zap.Error(err))
					return nil
				}

				if !batchSave {
					log.Info("parsed", zap.String("kind", string(result.Kind)),
						zap.Int("visits", len(result.Visits)))
					return nil
				}

				switch result.Kind {
				case model.KindTimeTracking:
					if result.Timesheet.TotalHours == nil {
						log.Warn("timesheet has no total hours, skipping")
						return nil
					}
					if _, err := st.SaveTimeEntry(gctx, timesheetDate(result.Timesheet.Date, date), *result.Timesheet.TotalHours); err != nil {
						failed.Add(1)
						log.Error("save time entry failed", zap.Error(err))
						return nil
					}
					entriesSaved.Add(1)
				default:
					// Each manifest carries its date in the file name when the
					// coordinator scans day by day: route_2025-03-06.pdf.
					fileDate := date
					if d, ok := dateFromFilename(pdf); ok {
						fileDate = d
					}
					n, err := st.SaveVisits(gctx, result.Visits, fileDate)
					if err != nil {
						failed.Add(1)
						log.Error("save visits failed", zap.Error(err))
						return nil
					}
					visitsSaved.Add(int64(n))
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch processing")
		}

		zap.L().Info("batch complete",
			zap.Int64("visits_saved", visitsSaved.Load()),
			zap.Int64("time_entries_saved", entriesSaved.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

var filenameDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// dateFromFilename finds a YYYY-MM-DD fragment in the file name.
func dateFromFilename(path string) (time.Time, bool) {
	m := filenameDateRe.FindString(filepath.Base(path))
	if m == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, m)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max PDFs parsed in parallel")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist extracted records")
	batchCmd.Flags().StringVar(&batchDate, "date", "", "fallback visit date YYYY-MM-DD (default today)")
	rootCmd.AddCommand(batchCmd)
}
