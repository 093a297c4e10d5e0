package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// summaryPlaceholder is shown for papers the pipeline has not
// summarized yet. Presentation never blocks on summarization.
const summaryPlaceholder = "summary not available yet"

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers, newest first",
	RunE:  runList,
}

func init() {
	listCmd.Flags().Int("offset", 0, "number of papers to skip")
	listCmd.Flags().Int("limit", 20, "maximum number of papers to show")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")

	total, err := st.CountPapers(ctx)
	if err != nil {
		return err
	}
	listings, err := st.ListPapers(ctx, offset, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(listings) == 0 {
		fmt.Fprintln(out, "no papers stored")
		return nil
	}

	for _, l := range listings {
		fmt.Fprintf(out, "%s  %s\n", l.ArxivID, l.Title)
		fmt.Fprintf(out, "    %s — %s\n", l.Published.Format("Jan 2, 2006"), strings.Join(l.Authors, ", "))
		brief := l.Brief
		if brief == "" {
			brief = summaryPlaceholder
		}
		fmt.Fprintf(out, "    %s\n\n", brief)
	}
	fmt.Fprintf(out, "showing %d of %d papers (offset %d)\n", len(listings), total, offset)
	return nil
}
