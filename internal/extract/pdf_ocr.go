package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/signloop/constants"
)

// ocrScannedPDF rasterizes a scanned pdf and OCRs every page.
// Empty OCR output degrades to the plain scanned fallback.
func (e *Extractor) ocrScannedPDF(ctx context.Context, data []byte, sparse string, pages int) (Result, error) {
	fail := func(format string, args ...any) (Result, error) {
		return Result{Method: constants.MethodScannedFallback, Pages: pages},
			extractionErr(constants.MethodScannedFallback, format, args...)
	}

	tmpDir, err := os.MkdirTemp("", "sl-pp-*")
	if err != nil {
		return fail("temp dir: %w", err)
	}
	defer removeTemp(tmpDir, e.logger)

	in := filepath.Join(tmpDir, "upload.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return fail("stage pdf: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, e.logger, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", in, prefix)
	if err != nil {
		return fail("pdftoppm: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	var warnings []string
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		warnings = append(warnings, fmt.Sprintf("ocr limited to first %d of %d pages", e.cfg.MaxPages, len(matches)))
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return fail("pdftoppm produced no images")
	}

	var (
		b     strings.Builder
		total ocrText
	)
	for _, img := range matches {
		o, err := e.tesseractTSV(ctx, img)
		if err != nil {
			return fail("page %s: %w", filepath.Base(img), err)
		}
		if o.text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(o.text)
		total.confSum += o.confSum
		total.words += o.words
	}

	text := Normalize(b.String())
	if text == "" {
		e.logger.Warn("extract.pdf.ocr_empty", "pages", len(matches))
		return scannedFallback(sparse, pages), nil
	}
	conf := total.meanConfidence()
	if conf == nil {
		conf = confidence(0)
	}
	return Result{
		Text:       text,
		Method:     constants.MethodScannedFallback,
		Confidence: conf,
		Pages:      pages,
		Language:   e.cfg.TesseractLang,
		Warnings:   warnings,
	}, nil
}
