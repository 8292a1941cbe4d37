package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/extract"
)

type ExtractStage struct {
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewExtractStage(tx extract.TextExtractor, logger *slog.Logger) *ExtractStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStage{TextExtractor: tx, Logger: logger}
}

// Run extracts text and decides whether it is worth analyzing.
// Blank text and the scanned-PDF sentinel both come back as common.ErrNoUsableText,
// alongside the extraction so callers can still record the method used.
func (s *ExtractStage) Run(ctx context.Context, data []byte, mimeType string) (extract.Result, error) {
	res, err := s.TextExtractor.Extract(ctx, data, mimeType)
	if err != nil {
		return res, err
	}

	text := strings.TrimSpace(res.Text)
	if text == "" || text == constants.ScannedPDFSentinel {
		s.Logger.Warn("pipeline.extract.no_usable_text",
			"req_id", common.RequestIDFromContext(ctx),
			"method", res.Method,
			"pages", res.Pages,
		)
		return res, fmt.Errorf("%w (method %s)", common.ErrNoUsableText, res.Method)
	}
	return res, nil
}
