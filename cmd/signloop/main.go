package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/signloop/internal/common"
)

func main() {
	cfg := common.LoadConfig()

	var logJSON bool
	root := &cobra.Command{
		Use:           "signloop",
		Short:         "Extract text from contracts and get an AI risk analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(cfg.Log, logJSON))
		},
	}
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit JSON logs on stderr")

	root.AddCommand(extractCmd(cfg), analyzeCmd(cfg), batchCmd(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func newLogger(c common.LogConfig, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: c.SlogLevel(),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if !asJSON && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// exitCode reuses the gRPC code space so scripts can tell bad input from provider trouble.
func exitCode(err error) int {
	var app *common.AppError
	if errors.As(err, &app) && app.Code == common.CodeConfig {
		return 2
	}
	st, _ := status.FromError(common.ToStatus(err))
	return int(st.Code())
}
