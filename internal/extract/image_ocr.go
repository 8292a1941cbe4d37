package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/signloop/constants"
)

// ocrText is tesseract's word stream rebuilt into lines plus its word confidences.
type ocrText struct {
	text    string
	confSum float64
	words   int
}

func (o ocrText) meanConfidence() *float64 {
	if o.words == 0 {
		return nil
	}
	return confidence(o.confSum / float64(o.words))
}

func (e *Extractor) extractImage(ctx context.Context, data []byte) (Result, error) {
	dir, err := os.MkdirTemp("", "sl-ocr-*")
	if err != nil {
		return Result{Method: constants.MethodImageOCR}, extractionErr(constants.MethodImageOCR, "temp dir: %w", err)
	}
	defer removeTemp(dir, e.logger)

	path := filepath.Join(dir, "upload")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return Result{Method: constants.MethodImageOCR}, extractionErr(constants.MethodImageOCR, "stage image: %w", err)
	}

	o, err := e.tesseractTSV(ctx, path)
	if err != nil {
		return Result{Method: constants.MethodImageOCR}, extractionErr(constants.MethodImageOCR, "failed to OCR image: %w", err)
	}

	return Result{
		Text:       Normalize(o.text),
		Method:     constants.MethodImageOCR,
		Confidence: o.meanConfidence(),
		Pages:      1,
		Language:   e.cfg.TesseractLang,
	}, nil
}

// tesseractTSV runs tesseract once in TSV mode; text and confidence come from the same pass.
func (e *Extractor) tesseractTSV(ctx context.Context, path string) (ocrText, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	// tesseract <file> stdout -l <lang> tsv
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.logger, args...)
	if err != nil {
		return ocrText{}, fmt.Errorf("tesseract: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}
	return parseTSV(string(out)), nil
}

// parseTSV reads tesseract TSV rows:
// level page_num block_num par_num line_num word_num left top width height conf text
// Only word rows (level 5) carry text; conf is 0..100, -1 for non-words.
func parseTSV(out string) ocrText {
	var b strings.Builder
	var res ocrText
	var lastPar, lastLine string
	for i, ln := range strings.Split(out, "\n") {
		ln = strings.TrimRight(ln, "\r")
		if i == 0 || ln == "" {
			continue
		} // header
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}

		par := cols[1] + "/" + cols[2] + "/" + cols[3]
		line := par + "/" + cols[4]
		switch {
		case b.Len() == 0:
		case par != lastPar:
			b.WriteString("\n\n")
		case line != lastLine:
			b.WriteString("\n")
		default:
			b.WriteString(" ")
		}
		b.WriteString(word)
		lastPar, lastLine = par, line

		if c, err := strconv.ParseFloat(cols[10], 64); err == nil && c >= 0 {
			res.confSum += c
			res.words++
		}
	}
	res.text = b.String()
	return res
}
