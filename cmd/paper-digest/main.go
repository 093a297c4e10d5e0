// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-digest CLI.
// Each pipeline stage is a subcommand: retrieve, process, summarize,
// and run (the long-lived worker loop); list, show, and stats expose
// the read-only corpus views.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the paper-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-digest",
	Short: "Ingest and summarize papers from the arXiv catalog",
	Long: `paper-digest retrieves recent paper metadata for one arXiv category,
extracts full text from the PDFs with an abstract fallback, and produces
brief and extended extractive summaries.

Each pipeline stage is a subcommand: retrieve, process, and summarize.
The run subcommand drives retrieval and processing on a fixed interval.
list, show, and stats are read-only views over the stored corpus.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-digest.yaml or ~/.config/paper-digest/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default papers.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-digest"))
		}
	}

	viper.SetEnvPrefix("PAPER_DIGEST")
	viper.AutomaticEnv()

	viper.SetDefault("store.db_path", "papers.db")
	viper.SetDefault("catalog.category", "quant-ph")
	viper.SetDefault("catalog.max_results", 20)
	viper.SetDefault("catalog.requests_per_second", 10)
	viper.SetDefault("catalog.min_interval", 24*time.Hour)
	viper.SetDefault("catalog.timeout", 30*time.Second)
	viper.SetDefault("extract.timeout", 30*time.Second)
	viper.SetDefault("summary.brief_sentences", 3)
	viper.SetDefault("summary.extended_sentences", 10)
	viper.SetDefault("worker.wake_interval", time.Hour)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the pipeline configuration from viper.
func loadConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Store: types.StoreConfig{
			DBPath: viper.GetString("store.db_path"),
		},
		Catalog: types.CatalogConfig{
			Category:          viper.GetString("catalog.category"),
			MaxResults:        viper.GetInt("catalog.max_results"),
			RequestsPerSecond: viper.GetFloat64("catalog.requests_per_second"),
			MinInterval:       viper.GetDuration("catalog.min_interval"),
		},
		Summary: types.SummaryConfig{
			BriefSentences:    viper.GetInt("summary.brief_sentences"),
			ExtendedSentences: viper.GetInt("summary.extended_sentences"),
		},
		Worker: types.WorkerConfig{
			WakeInterval: viper.GetDuration("worker.wake_interval"),
		},
	}
	cfg.Catalog.Timeout = viper.GetDuration("catalog.timeout")
	cfg.Extract.Timeout = viper.GetDuration("extract.timeout")

	if db, _ := rootCmd.PersistentFlags().GetString("db"); db != "" {
		cfg.Store.DBPath = db
	}
	return cfg
}

// openStore opens the configured database. Failure here is fatal: the
// caller returns the error and the process exits non-zero.
func openStore(cfg types.PipelineConfig) (*store.Store, error) {
	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store at %s: %w", cfg.Store.DBPath, err)
	}
	return s, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
