package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/export"
	"github.com/joseph-ayodele/signloop/internal/extract"
	"github.com/joseph-ayodele/signloop/internal/llm"
)

func analyzeCmd(cfg *common.Config) *cobra.Command {
	var (
		contractType string
		region       string
		model        string
		mimeType     string
		xlsxPath     string
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Extract a contract's text and print the AI analysis as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			ctx := cmd.Context()
			if cfg.AnalyzeTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.AnalyzeTimeout)
				defer cancel()
			}

			proc, err := newProcessor(ctx, cfg, model, logger)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if mimeType == "" {
				mimeType = extract.DetectMimeType(args[0], data)
			}
			meta := &llm.Metadata{ContractType: contractType, Region: region}

			out, err := proc.Process(ctx, data, constants.BaseMime(mimeType), meta)
			if err != nil {
				return err
			}
			out.Source = args[0]

			if xlsxPath != "" {
				b, err := export.NewService(logger).ExportAnalysisXLSX(ctx, out)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, b, 0o644); err != nil {
					return err
				}
			}
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&contractType, "type", "", "contract type hint, e.g. lease, NDA")
	cmd.Flags().StringVar(&region, "region", "", "jurisdiction hint, e.g. UK, California")
	cmd.Flags().StringVar(&model, "model", "", "override the configured model")
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared content type (default: from extension, then sniffed)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the analysis to this .xlsx file")
	return cmd
}
