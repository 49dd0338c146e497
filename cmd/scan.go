package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careassist/routetrack/internal/contact"
	"github.com/careassist/routetrack/internal/ocr"
)

var scanSave bool

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Extract a contact from a business-card photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		extractor := ocr.NewImageExtractor(cfg.OCR)
		text, err := extractor.ExtractImageText(ctx, args[0])
		if err != nil {
			return err
		}

		c := contact.Validate(contact.Extract(text))

		if scanSave {
			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			saved, err := st.SaveContact(ctx, c)
			if err != nil {
				return err
			}
			zap.L().Info("contact saved",
				zap.String("id", saved.ID),
				zap.String("name", saved.Name),
				zap.String("email", saved.Email),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "persist the extracted contact")
	rootCmd.AddCommand(scanCmd)
}
