package extract

import (
	"context"
	"time"

	"github.com/joseph-ayodele/signloop/constants"
)

// TextExtractor is Stage 1: bytes + declared MIME -> text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (Result, error)
}

// PDFTextReader pulls the text layer out of a PDF without OCR.
// pages is always >= 1 on success.
type PDFTextReader interface {
	ReadText(ctx context.Context, data []byte) (text string, pages int, err error)
}

// Result is produced once per upload and owned by the caller afterwards.
type Result struct {
	Text       string                     `json:"text"`
	Method     constants.ExtractionMethod `json:"method"`
	Confidence *float64                   `json:"confidence"` // 0..100; nil when the engine reported nothing
	Pages      int                        `json:"pages"`
	Language   string                     `json:"language,omitempty"`
	Duration   time.Duration              `json:"duration"`
	Warnings   []string                   `json:"warnings,omitempty"`
}

func confidence(v float64) *float64 { return &v }
