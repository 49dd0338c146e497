// Package ocr turns document bytes on disk into the plain text the
// extraction engine consumes. PDF extractors separate pages with a
// form-feed character so the route parser can restart its state machine
// per page.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/careassist/routetrack/internal/config"
)

// Extractor extracts text content from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// ImageExtractor extracts text content from photographed business cards.
type ImageExtractor interface {
	ExtractImageText(ctx context.Context, imagePath string) (string, error)
}

// NewExtractor creates a PDF Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

// NewImageExtractor creates the tesseract-backed card image extractor.
func NewImageExtractor(cfg config.OCRConfig) ImageExtractor {
	return NewTesseract(cfg.TesseractPath)
}
