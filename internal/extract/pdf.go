package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	rpdf "rsc.io/pdf"

	"github.com/joseph-ayodele/signloop/constants"
)

const (
	// minCharsPerPage is the text density below which a pdf looks image-only.
	minCharsPerPage = 50
	// minTextTotal keeps short but real documents (a one-page notice) on the direct path.
	minTextTotal = 500
)

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	raw, pages, err := e.pdf.ReadText(ctx, data)
	if err != nil {
		return Result{Method: constants.MethodDirectParse},
			extractionErr(constants.MethodDirectParse, "failed to parse PDF: %w", err)
	}
	if pages < 1 {
		pages = 1
	}
	text := strings.TrimSpace(raw)

	if !looksScanned(text, pages) {
		return Result{
			Text:       text,
			Method:     constants.MethodDirectParse,
			Confidence: confidence(100),
			Pages:      pages,
		}, nil
	}

	e.logger.Info("extract.pdf.scanned",
		"chars", utf8.RuneCountInString(text),
		"pages", pages,
		"ocr_enabled", e.cfg.ScannedPDFOCR,
	)
	if e.cfg.ScannedPDFOCR {
		return e.ocrScannedPDF(ctx, data, text, pages)
	}
	return scannedFallback(text, pages), nil
}

// looksScanned applies the density rule: both the per-page average and the total must be low.
func looksScanned(text string, pages int) bool {
	total := utf8.RuneCountInString(text)
	avg := float64(total) / float64(pages)
	return avg < minCharsPerPage && total < minTextTotal
}

func scannedFallback(text string, pages int) Result {
	if text == "" {
		text = constants.ScannedPDFSentinel
	}
	return Result{
		Text:       text,
		Method:     constants.MethodScannedFallback,
		Confidence: confidence(0),
		Pages:      pages,
		Warnings:   []string{"pdf text layer is too sparse; looks scanned"},
	}
}

// nativeReader reads the text layer with rsc.io/pdf, no external binaries.
type nativeReader struct{}

func (nativeReader) ReadText(ctx context.Context, data []byte) (text string, pages int, err error) {
	// rsc.io/pdf panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			text, pages, err = "", 0, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}
	n := doc.NumPage()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		b.WriteString(pageText(p))
		b.WriteString("\n\n")
	}
	return b.String(), max(n, 1), nil
}

// pageText reads glyph positions when the fonts carry /Widths. Without them rsc.io/pdf
// gives every glyph of a show-text operand the same x and drops the spaces, so the page
// is read from its text operators instead.
func pageText(p rpdf.Page) string {
	runs := p.Content().Text
	for _, t := range runs {
		if t.W > 0 {
			var b strings.Builder
			writePageText(&b, runs)
			return b.String()
		}
	}
	if len(runs) == 0 {
		return ""
	}
	return streamText(p)
}

// tjWordGap is the TJ adjustment, in thousandths of an em, read as a word break.
const tjWordGap = 200

// streamText decodes the page's show-text operands in content order, keeping the
// spaces the font encoding yields. Vertical moves start a new line.
func streamText(p rpdf.Page) string {
	var (
		b     strings.Builder
		enc   rpdf.TextEncoding
		lastY float64
	)
	newline := func() {
		if s := b.String(); s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}
	space := func() {
		if s := b.String(); s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			b.WriteByte(' ')
		}
	}
	show := func(raw string) {
		if enc == nil {
			b.WriteString(raw)
			return
		}
		b.WriteString(enc.Decode(raw))
	}

	rpdf.Interpret(p.V.Key("Contents"), func(stk *rpdf.Stack, op string) {
		n := stk.Len()
		args := make([]rpdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "Tf":
			if n == 2 {
				enc = p.Font(args[0].Name()).Encoder()
			}
		case "Td", "TD":
			if n != 2 {
				return
			}
			if args[1].Float64() != 0 {
				newline()
			} else if args[0].Float64() != 0 {
				space()
			}
		case "Tm":
			if n != 6 {
				return
			}
			if y := args[5].Float64(); y != lastY {
				newline()
				lastY = y
			} else {
				space()
			}
		case "T*":
			newline()
		case "'", "\"":
			newline()
			if n > 0 {
				show(args[n-1].RawString())
			}
		case "Tj":
			if n == 1 {
				show(args[0].RawString())
			}
		case "TJ":
			if n != 1 {
				return
			}
			v := args[0]
			for i := 0; i < v.Len(); i++ {
				x := v.Index(i)
				if x.Kind() == rpdf.String {
					show(x.RawString())
				} else if -x.Float64() >= tjWordGap {
					space()
				}
			}
		}
	})
	return b.String()
}

// writePageText lays glyph runs out in reading order as the content stream emits them:
// a new line when the baseline moves, a space when there is a horizontal gap.
func writePageText(b *strings.Builder, runs []rpdf.Text) {
	var prev *rpdf.Text
	for i := range runs {
		t := &runs[i]
		if prev != nil {
			tol := math.Max(prev.FontSize, 1) / 2
			switch {
			case math.Abs(t.Y-prev.Y) > tol:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > tol/2:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
	}
}

// popplerReader shells out to pdftotext.
type popplerReader struct {
	bin    string
	runner Runner
	logger *slog.Logger
}

func (p *popplerReader) ReadText(ctx context.Context, data []byte) (string, int, error) {
	dir, err := os.MkdirTemp("", "sl-pdf-*")
	if err != nil {
		return "", 0, err
	}
	defer removeTemp(dir, p.logger)

	path := filepath.Join(dir, "upload.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", 0, err
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := p.runner.Run(ctx, p.bin, p.logger, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, fmt.Errorf("pdftotext: %w: %s", err, truncate(string(errb), 512))
	}
	return splitFormFeeds(string(out))
}

// splitFormFeeds counts pages from pdftotext's form-feed separators.
func splitFormFeeds(s string) (string, int, error) {
	pages := strings.Count(s, "\f")
	if !strings.HasSuffix(strings.TrimRight(s, "\n"), "\f") {
		pages++
	}
	return strings.ReplaceAll(s, "\f", "\n"), max(pages, 1), nil
}

func removeTemp(dir string, logger *slog.Logger) {
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
	}
}
