package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus counts and the last retrieval time",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "papers:             %d\n", stats.Papers)
	fmt.Fprintf(out, "summarized:         %d\n", stats.Summarized)
	fmt.Fprintf(out, "failed extractions: %d\n", stats.FailedExtractions)
	if stats.LastRetrieval != nil {
		fmt.Fprintf(out, "last retrieval:     %s\n", stats.LastRetrieval.Format("Jan 2, 2006 15:04 MST"))
	} else {
		fmt.Fprintln(out, "last retrieval:     never")
	}
	return nil
}
