package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/async"
	"github.com/joseph-ayodele/signloop/internal/common"
	"github.com/joseph-ayodele/signloop/internal/export"
	"github.com/joseph-ayodele/signloop/internal/llm"
)

func batchCmd(cfg *common.Config) *cobra.Command {
	var (
		workers      int
		outPath      string
		contractType string
		region       string
		model        string
		recursive    bool
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every supported file in a directory and write an XLSX summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()
			ctx := cmd.Context()

			proc, err := newProcessor(ctx, cfg, model, logger)
			if err != nil {
				return err
			}
			files, err := listSupported(args[0], recursive)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no supported files in %s", args[0])
			}

			results := &batchResults{}
			q := async.NewQueue(proc, logger,
				async.WithWorkers(workers),
				async.WithProcessTimeout(cfg.AnalyzeTimeout),
				async.WithResultHandler(func(r async.Result) {
					results.add(r)
					status := "ok"
					if r.Err != nil {
						status = common.Code(r.Err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", status, r.Job.Path)
				}),
			)
			meta := &llm.Metadata{ContractType: contractType, Region: region}
			for _, f := range files {
				if err := q.Enqueue(ctx, async.Job{Path: f, Meta: meta}); err != nil {
					_ = q.Shutdown(ctx)
					return err
				}
			}
			if err := q.Shutdown(ctx); err != nil {
				return fmt.Errorf("batch interrupted before all files finished: %w", err)
			}

			b, err := export.NewService(logger).ExportBatchXLSX(ctx, results.sorted())
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, b, 0o644)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent analyses")
	cmd.Flags().StringVarP(&outPath, "out", "o", "signloop-batch.xlsx", "summary workbook path")
	cmd.Flags().StringVar(&contractType, "type", "", "contract type hint applied to every file")
	cmd.Flags().StringVar(&region, "region", "", "jurisdiction hint applied to every file")
	cmd.Flags().StringVar(&model, "model", "", "override the configured model")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	return cmd
}

// batchResults collects queue results; workers append while the command waits.
type batchResults struct {
	mu    sync.Mutex
	items []async.Result
}

func (b *batchResults) add(r async.Result) {
	b.mu.Lock()
	b.items = append(b.items, r)
	b.mu.Unlock()
}

// sorted returns a copy ordered by path.
func (b *batchResults) sorted() []async.Result {
	b.mu.Lock()
	out := slices.Clone(b.items)
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Job.Path < out[j].Job.Path })
	return out
}

// listSupported walks root and returns files whose extension maps to an accepted
// type. Hidden files and directories are skipped; subdirectories only when recursive.
func listSupported(root string, recursive bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		hidden := path != root && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if path != root && (hidden || !recursive) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() {
			return nil
		}
		if constants.MimeFromExt(filepath.Ext(path)) != "" {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
