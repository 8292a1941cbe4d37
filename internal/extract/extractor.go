package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
)

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng"
	TessdataDir   string

	PDFEngine string // "native" (rsc.io/pdf) | "pdftotext"; default native
	Pdftotext string // if empty -> "pdftotext"
	Pdftoppm  string // if empty -> "pdftoppm"

	// ScannedPDFOCR rasterizes and OCRs pdfs that classify as scanned.
	// Off by default: scanned pdfs return their sparse text or the sentinel.
	ScannedPDFOCR bool
	DPI           int // rasterization DPI for scanned PDFs, default 300
	MaxPages      int // 0 = no limit
}

// ConfigFrom adapts the env-level OCR settings.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Tesseract:     c.Tesseract,
		TesseractLang: c.Lang,
		TessdataDir:   c.TessdataDir,
		PDFEngine:     c.PDFEngine,
		Pdftotext:     c.Pdftotext,
		Pdftoppm:      c.Pdftoppm,
		ScannedPDFOCR: c.ScannedPDFOCR,
		DPI:           c.DPI,
		MaxPages:      c.MaxPages,
	}
}

// Extractor dispatches a buffer to plain-text, PDF or image OCR extraction.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	cfg    Config
	runner Runner
	pdf    PDFTextReader
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner swaps the external command runner (tests, sandboxes).
func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithPDFReader overrides the engine picked from Config.PDFEngine.
func WithPDFReader(p PDFTextReader) Option {
	return func(e *Extractor) {
		if p != nil {
			e.pdf = p
		}
	}
}

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	e := &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	if e.pdf == nil {
		if cfg.PDFEngine == common.PDFEnginePdftotext {
			e.pdf = &popplerReader{bin: cfg.Pdftotext, runner: e.runner, logger: logger}
		} else {
			e.pdf = nativeReader{}
		}
	}
	return e
}

// Extract validates the declared type and picks a strategy for it.
// Strategy failures come back as *common.ExtractionError with the cause attached.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (Result, error) {
	if err := ValidateMimeType(mimeType); err != nil {
		e.logger.Warn("extract.unsupported_mime", "mime", mimeType)
		return Result{}, err
	}

	start := time.Now()
	e.logger.Debug("extract.start", "mime", mimeType, "bytes", len(data))

	var (
		res Result
		err error
	)
	switch {
	case mimeType == constants.MimePlainText:
		res = extractPlainText(data)
	case mimeType == constants.MimePDF:
		res, err = e.extractPDF(ctx, data)
	case constants.IsImageMime(mimeType):
		res, err = e.extractImage(ctx, data)
	default:
		// unreachable while the whitelist only holds pdf, image/* and text/plain
		return Result{}, &common.UnsupportedMediaTypeError{MimeType: mimeType}
	}
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("extract.failed", "mime", mimeType, "error", err, "elapsed_ms", res.Duration.Milliseconds())
		return res, err
	}

	e.logger.Info("extract.ok",
		"mime", mimeType,
		"method", res.Method,
		"chars", len([]rune(res.Text)),
		"pages", res.Pages,
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func extractionErr(m constants.ExtractionMethod, format string, args ...any) error {
	return &common.ExtractionError{Method: m, Cause: fmt.Errorf(format, args...)}
}
