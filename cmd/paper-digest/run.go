package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/catalog"
	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/retrieve"
	"github.com/pdiddy/paper-digest/internal/summarize"
	"github.com/pdiddy/paper-digest/internal/worker"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the worker loop until interrupted",
	Long: `Run performs one pipeline pass immediately, then one per wake
interval: retrieval when the minimum interval has elapsed, followed
unconditionally by processing of unsummarized papers. SIGINT or SIGTERM
stops the loop after the in-flight paper completes.`,
	RunE: runWorker,
}

func init() {
	runCmd.Flags().Duration("interval", 0, "wake interval between passes (default 1h)")

	rootCmd.AddCommand(runCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = cfg.Worker.WakeInterval
	}
	if interval <= 0 {
		interval = time.Hour
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := catalog.New(cfg.Catalog)
	orch := pipeline.New(st, extract.New(cfg.Extract), summarize.New(cfg.Summary), cfg.Summary)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	loop := &worker.Loop{
		ShouldRetrieve: func(ctx context.Context) (bool, error) {
			return retrieve.ShouldRun(ctx, st, cfg.Catalog.MinInterval)
		},
		Retrieve: func(ctx context.Context, w io.Writer) (int, error) {
			return retrieve.RetrieveRecent(ctx, st, client, cfg.Catalog.MaxResults, w)
		},
		Process: func(ctx context.Context, w io.Writer) (pipeline.Report, error) {
			return orch.ProcessUnsummarized(ctx, w)
		},
		Ticks: ticker.C,
		Out:   os.Stdout,
	}

	fmt.Printf("worker started, wake interval %s\n", interval)
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("worker stopped")
		return nil
	}
	return err
}
