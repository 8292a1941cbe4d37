package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/extract"
)

func extractCmd(cfg *common.Config) *cobra.Command {
	var mimeType string
	var textOnly bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text from a PDF, image or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			ex, err := newExtractor(cfg, logger)
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
			res, err := ex.Extract(cmd.Context(), data, constants.BaseMime(mimeType))
			if err != nil {
				return err
			}
			if textOnly {
				fmt.Fprintln(cmd.OutOrStdout(), extract.Normalize(res.Text))
				return nil
			}
			b, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "declared content type (default: from extension, then sniffed)")
	cmd.Flags().BoolVar(&textOnly, "text", false, "print normalized text only")
	return cmd
}
