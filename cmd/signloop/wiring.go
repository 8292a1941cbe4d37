package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/extract"
	"github.com/joseph-ayodele/signloop/internal/llm"
	"github.com/joseph-ayodele/signloop/internal/llm/gemini"
	"github.com/joseph-ayodele/signloop/internal/llm/openrouter"
	"github.com/joseph-ayodele/signloop/internal/pipeline"
)

func newExtractor(cfg *common.Config, logger *slog.Logger) (*extract.Extractor, error) {
	if err := cfg.ValidateForExtraction(); err != nil {
		return nil, err
	}
	return extract.NewExtractor(extract.ConfigFrom(cfg.OCR), logger), nil
}

func newInvoker(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.Invoker, error) {
	switch cfg.LLM.Provider {
	case common.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.ConfigFrom(cfg.LLM), logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case common.ProviderOpenRouter:
		c, err := openrouter.NewClient(openrouter.ConfigFrom(cfg.LLM), logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("unknown LLM_PROVIDER %q", cfg.LLM.Provider), nil)
	}
}

// newProcessor wires extract -> analyze. model overrides the configured model when set.
func newProcessor(ctx context.Context, cfg *common.Config, model string, logger *slog.Logger) (*pipeline.Processor, error) {
	if err := cfg.ValidateForAnalysis(); err != nil {
		return nil, err
	}
	ex, err := newExtractor(cfg, logger)
	if err != nil {
		return nil, err
	}
	inv, err := newInvoker(ctx, cfg, logger)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "llm client", err)
	}
	an, err := llm.NewAnalyzer(inv, cfg.LLM.Model(), logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewProcessor(logger,
		pipeline.NewExtractStage(ex, logger),
		pipeline.NewAnalyzeStage(an, model, logger),
	), nil
}
