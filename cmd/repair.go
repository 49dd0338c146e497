package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/parse"
)

var repairDryRun bool

var repairCmd = &cobra.Command{
	Use:   "repair-names",
	Short: "Replace generic business names with street-derived ones",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		visits, err := st.ListGenericVisits(ctx)
		if err != nil {
			return err
		}
		if len(visits) == 0 {
			zap.L().Info("no generic business names to repair")
			return nil
		}

		var repaired, skipped int
		for _, v := range visits {
			name, ok := parse.RepairName(v.Location)
			if !ok {
				zap.L().Warn("no street name in address, skipping",
					zap.String("id", v.ID), zap.String("location", v.Location))
				skipped++
				continue
			}

			if repairDryRun {
				zap.L().Info("would repair",
					zap.String("id", v.ID),
					zap.String("from", v.BusinessName),
					zap.String("to", name),
				)
				repaired++
				continue
			}

			if err := st.UpdateVisitBusinessName(ctx, v.ID, name); err != nil {
				return err
			}
			repaired++
		}

		zap.L().Info("repair complete",
			zap.Int("repaired", repaired),
			zap.Int("skipped", skipped),
			zap.Bool("dry_run", repairDryRun),
		)
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "log repairs without writing them")
	rootCmd.AddCommand(repairCmd)
}
