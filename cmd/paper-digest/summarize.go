package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a text file (or stdin) without touching the store",
	Long: `Summarize runs the extractive summarizer standalone: it reads text
from the given file, or from stdin when the argument is "-" or absent,
and prints the selected sentences in document order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().Int("sentences", 3, "number of sentences to select")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	n, _ := cmd.Flags().GetInt("sentences")
	if n <= 0 {
		n = 3
	}

	s := summarize.New(loadConfig().Summary)
	fmt.Println(s.Summarize(string(data), n))
	return nil
}
