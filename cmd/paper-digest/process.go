package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/summarize"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract and summarize papers that have no summary yet",
	Long: `Process finds papers without a summary, extracts text from each
paper's PDF (falling back to the abstract when extraction fails or
yields less text than the abstract), and stores a brief and an extended
extractive summary. One paper's failure never aborts the batch.

With --all, every paper is re-extracted and re-summarized, including
papers that already have summaries.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().Bool("all", false, "reprocess every paper, replacing existing summaries")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	orch := pipeline.New(st, extract.New(cfg.Extract), summarize.New(cfg.Summary), cfg.Summary)

	all, _ := cmd.Flags().GetBool("all")
	if all {
		_, err = orch.ReprocessAll(cmd.Context(), os.Stdout)
	} else {
		_, err = orch.ProcessUnsummarized(cmd.Context(), os.Stdout)
	}
	return err
}
