package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
)

// Analyzer turns contract text into a validated AnalysisResult with one model call.
type Analyzer struct {
	invoker Invoker
	model   string
	logger  *slog.Logger
}

func NewAnalyzer(invoker Invoker, model string, logger *slog.Logger) (*Analyzer, error) {
	if invoker == nil {
		return nil, errors.New("llm: invoker is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("llm: model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{invoker: invoker, model: model, logger: logger}, nil
}

// Model is the default model used when Analyze is not given one.
func (a *Analyzer) Model() string { return a.model }

// Analyze runs prompt -> invoke -> recover -> validate. Nothing is retried.
func (a *Analyzer) Analyze(ctx context.Context, text string, meta *Metadata) (*Analysis, error) {
	return a.AnalyzeWithModel(ctx, text, meta, a.model)
}

func (a *Analyzer) AnalyzeWithModel(ctx context.Context, text string, meta *Metadata, model string) (*Analysis, error) {
	if model == "" {
		model = a.model
	}
	log := a.logger.With("req_id", common.RequestIDFromContext(ctx), "provider", a.invoker.Provider(), "model", model)

	prompt := BuildAnalysisPrompt(text, meta)
	start := time.Now()
	log.Info("llm.analyze.start", "text_chars", len([]rune(text)), "prompt_chars", len(prompt))

	raw, err := a.invoker.Invoke(ctx, prompt, model)
	if err != nil {
		log.Error("llm.analyze.invoke_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		log.Error("llm.analyze.empty_response")
		return nil, common.ErrEmptyResponse
	}

	parsed, err := RecoverJSON(raw)
	if err != nil {
		log.Error("llm.analyze.unparsable", "error", err, "response_chars", len(raw))
		return nil, err
	}

	v, err := ValidateAnalysis(parsed)
	if err != nil {
		log.Error("llm.analyze.invalid", "error", err)
		return nil, err
	}
	if v.Tier == constants.TierLenient {
		log.Warn("llm.analyze.lenient_defaults_applied", "filled", v.FilledPaths)
	}

	log.Info("llm.analyze.ok",
		"risk_badge", v.Result.RiskBadge,
		"red_flags", len(v.Result.RedFlags),
		"tier", v.Tier,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Analysis{
		Result:      v.Result,
		Provider:    a.invoker.Provider(),
		Model:       model,
		Tier:        v.Tier,
		FilledPaths: v.FilledPaths,
		RawResponse: raw,
	}, nil
}
