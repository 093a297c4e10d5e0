package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/catalog"
	"github.com/pdiddy/paper-digest/internal/retrieve"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve",
	Short: "Fetch recent papers from the catalog into the store",
	Long: `Retrieve queries the arXiv API for the configured category, newest
submissions first, and stores papers not already known. Already-stored
papers are skipped. Unless --force is given, retrieval is skipped when
the last successful run is newer than the configured minimum interval.`,
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().Int("max-results", 0, "number of entries to request (default from config)")
	retrieveCmd.Flags().Bool("force", false, "retrieve even if the minimum interval has not elapsed")

	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		ok, err := retrieve.ShouldRun(ctx, st, cfg.Catalog.MinInterval)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stdout, "skipping retrieval: minimum interval not elapsed (use --force to override)")
			return nil
		}
	}

	max, _ := cmd.Flags().GetInt("max-results")
	if max <= 0 {
		max = cfg.Catalog.MaxResults
	}

	client := catalog.New(cfg.Catalog)
	_, err = retrieve.RetrieveRecent(ctx, st, client, max, os.Stdout)
	return err
}
