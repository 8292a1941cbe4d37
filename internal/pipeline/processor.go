package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/extract"
	"github.com/joseph-ayodele/signloop/internal/llm"
)

// Outcome is everything one run produced. Persisting it is the caller's job.
type Outcome struct {
	ID         uuid.UUID      `json:"id"`
	Source     string         `json:"source,omitempty"`
	MimeType   string         `json:"mime_type"`
	Extraction extract.Result `json:"extraction"`
	Analysis   *llm.Analysis  `json:"analysis,omitempty"`
	Duration   time.Duration  `json:"duration"`
}

// Processor coordinates text extraction then contract analysis.
type Processor struct {
	Logger  *slog.Logger
	Extract *ExtractStage
	Analyze *AnalyzeStage
}

func NewProcessor(logger *slog.Logger, ex *ExtractStage, an *AnalyzeStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extract: ex, Analyze: an}
}

// Process runs extract then analyze over an in-memory upload. The returned Outcome
// carries whatever was produced before a failure.
func (p *Processor) Process(ctx context.Context, data []byte, mimeType string, meta *llm.Metadata) (Outcome, error) {
	ctx, out := p.begin(ctx, mimeType)
	start := time.Now()

	res, err := p.Extract.Run(ctx, data, mimeType)
	out.Extraction = res
	if err != nil {
		p.Logger.Error("processor.extract.failed", "req_id", out.ID, "code", common.Code(err), "error", err)
		out.Duration = time.Since(start)
		return out, err
	}
	p.Logger.Info("processor.extract.ok",
		"req_id", out.ID,
		"method", res.Method,
		"pages", res.Pages,
		"confidence", res.Confidence,
	)

	if p.Analyze == nil {
		out.Duration = time.Since(start)
		return out, nil
	}
	an, err := p.Analyze.Run(ctx, res.Text, meta)
	if err != nil {
		p.Logger.Error("processor.analyze.failed", "req_id", out.ID, "code", common.Code(err), "error", err)
		out.Duration = time.Since(start)
		return out, err
	}
	out.Analysis = an
	out.Duration = time.Since(start)
	p.Logger.Info("processor.analyze.ok",
		"req_id", out.ID,
		"risk_badge", an.Result.RiskBadge,
		"tier", an.Tier,
		"elapsed_ms", out.Duration.Milliseconds(),
	)
	return out, nil
}

// ProcessFile reads path, detects its type from the extension (falling back to
// content sniffing) and runs Process.
func (p *Processor) ProcessFile(ctx context.Context, path string, meta *llm.Metadata) (Outcome, error) {
	data, mimeType, err := readSource(path)
	if err != nil {
		return Outcome{Source: path}, err
	}
	out, err := p.Process(ctx, data, mimeType, meta)
	out.Source = path
	return out, err
}

func (p *Processor) begin(ctx context.Context, mimeType string) (context.Context, Outcome) {
	id := uuid.New()
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		if parsed, err := uuid.Parse(rid); err == nil {
			id = parsed
		}
	} else {
		ctx = common.WithRequestID(ctx, id.String())
	}
	return ctx, Outcome{ID: id, MimeType: mimeType}
}

func readSource(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, extract.DetectMimeType(path, data), nil
}
