package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/signloop/internal/llm"
)

// ContractAnalyzer is the slice of *llm.Analyzer the pipeline depends on.
type ContractAnalyzer interface {
	AnalyzeWithModel(ctx context.Context, text string, meta *llm.Metadata, model string) (*llm.Analysis, error)
}

type AnalyzeStage struct {
	Analyzer ContractAnalyzer
	Model    string // empty = analyzer default
	Logger   *slog.Logger
}

func NewAnalyzeStage(a ContractAnalyzer, model string, logger *slog.Logger) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStage{Analyzer: a, Model: model, Logger: logger}
}

func (s *AnalyzeStage) Run(ctx context.Context, text string, meta *llm.Metadata) (*llm.Analysis, error) {
	return s.Analyzer.AnalyzeWithModel(ctx, text, meta, s.Model)
}
